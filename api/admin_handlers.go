package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type verifyRequest struct {
	WinnerID string `json:"winner_id"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	winnerID, err := uuid.Parse(req.WinnerID)
	if err != nil {
		writeBadRequest(w, "invalid winner_id")
		return
	}

	match, err := s.results.Verify(r.Context(), matchID, winnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match, false))
}

func (s *Server) handleAdminCancel(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	match, err := s.matches.CancelMatch(r.Context(), matchID, uuid.Nil, true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match, false))
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	if err := s.matches.DeleteMatch(r.Context(), matchID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleReviewQueue lists COMPLETED matches flagged for manual review
func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.ListReviewQueue(r.Context(), parseLimit(r, 100))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m, false))
	}
	writeJSON(w, http.StatusOK, out)
}
