package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"arenasrv/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createMatchRequest struct {
	GameType string `json:"game_type"`
	EntryFee int64  `json:"entry_fee"`
	Capacity int    `json:"capacity"`
}

type joinMatchRequest struct {
	RoomCode string `json:"room_code"`
}

type matchResponse struct {
	ID            uuid.UUID          `json:"id"`
	GameType      string             `json:"game_type"`
	EntryFee      int64              `json:"entry_fee"`
	PrizeAmount   int64              `json:"prize_amount"`
	Capacity      int                `json:"capacity"`
	RoomCode      string             `json:"room_code,omitempty"`
	Status        models.MatchStatus `json:"status"`
	HostID        uuid.UUID          `json:"host_id"`
	WinnerID      *uuid.UUID         `json:"winner_id,omitempty"`
	ReviewFlagged bool               `json:"review_flagged"`
	CreatedAt     time.Time          `json:"created_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	VerifiedAt    *time.Time         `json:"verified_at,omitempty"`
}

type participantResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Ready         bool      `json:"ready"`
	ScreenshotURL *string   `json:"screenshot_url,omitempty"`
}

type matchDetailResponse struct {
	matchResponse
	Participants []participantResponse `json:"participants"`
}

// The room code is only shared with participants; listings hide it.
func toMatchResponse(m *models.Match, includeRoomCode bool) matchResponse {
	resp := matchResponse{
		ID:            m.ID,
		GameType:      m.GameType,
		EntryFee:      m.EntryFee,
		PrizeAmount:   m.PrizeAmount,
		Capacity:      m.Capacity,
		Status:        m.Status,
		HostID:        m.HostID,
		WinnerID:      m.WinnerID,
		ReviewFlagged: m.ReviewFlagged,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
		VerifiedAt:    m.VerifiedAt,
	}
	if includeRoomCode {
		resp.RoomCode = m.RoomCode
	}
	return resp
}

func toMatchDetailResponse(d *models.MatchDetail, viewerID uuid.UUID) matchDetailResponse {
	resp := matchDetailResponse{
		matchResponse: toMatchResponse(d.Match, d.IsParticipant(viewerID)),
	}
	for _, p := range d.Participants {
		resp.Participants = append(resp.Participants, participantResponse{
			UserID:        p.UserID,
			Ready:         p.Ready,
			ScreenshotURL: p.ScreenshotURL,
		})
	}
	return resp
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	hostID := userIDFrom(r.Context())
	detail, err := s.matches.CreateMatch(r.Context(), hostID, req.GameType, req.EntryFee, req.Capacity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchDetailResponse(detail, hostID))
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)

	var (
		matches []*models.Match
		err     error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		matches, err = s.matches.ListMatchesByStatus(r.Context(), models.MatchStatus(raw), limit)
	} else {
		matches, err = s.matches.ListOpenMatches(r.Context(), limit)
	}
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

func (s *Server) handleListMyMatches(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	limit := parseLimit(r, 50)

	matches, err := s.matches.ListUserMatches(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m, true))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	detail, err := s.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Viewer identity is optional here, absent means an outsider's view
	var viewerID uuid.UUID
	if raw := r.Header.Get("X-User-ID"); raw != "" {
		viewerID, _ = uuid.Parse(raw)
	}

	writeJSON(w, http.StatusOK, toMatchDetailResponse(detail, viewerID))
}

func (s *Server) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	var req joinMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	userID := userIDFrom(r.Context())
	detail, err := s.matches.JoinMatch(r.Context(), matchID, userID, req.RoomCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchDetailResponse(detail, userID))
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	userID := userIDFrom(r.Context())
	detail, err := s.matches.SetReady(r.Context(), matchID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchDetailResponse(detail, userID))
}

// handleSubmitResult accepts either a multipart upload with a "screenshot"
// file part, or a JSON body carrying a screenshot_url when the client
// uploaded elsewhere.
func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	userID := userIDFrom(r.Context())

	var screenshotURL string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if s.screenshots == nil {
			writeBadRequest(w, "screenshot uploads are not configured")
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeBadRequest(w, "invalid multipart body")
			return
		}
		_, fileHeader, err := r.FormFile("screenshot")
		if err != nil {
			writeBadRequest(w, "screenshot file is required")
			return
		}
		screenshotURL, err = s.screenshots.UploadScreenshot(r.Context(), matchID, fileHeader)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		var req struct {
			ScreenshotURL string `json:"screenshot_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
		screenshotURL = req.ScreenshotURL
	}

	if screenshotURL == "" {
		writeBadRequest(w, "screenshot is required")
		return
	}

	detail, err := s.results.SubmitResult(r.Context(), matchID, userID, screenshotURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchDetailResponse(detail, userID))
}

func (s *Server) handleCancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeBadRequest(w, "invalid match ID")
		return
	}

	userID := userIDFrom(r.Context())
	match, err := s.matches.CancelMatch(r.Context(), matchID, userID, false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match, false))
}
