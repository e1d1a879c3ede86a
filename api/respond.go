package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"arenasrv/models"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps the service error kinds onto HTTP statuses. Unknown errors
// are logged and surfaced as a plain 500 so message internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, models.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidRoomCode):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrAlreadyJoined),
		errors.Is(err, models.ErrAlreadySubmitted),
		errors.Is(err, models.ErrAlreadyVerified),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		log.WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
