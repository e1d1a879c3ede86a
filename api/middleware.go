package api

import (
	"context"
	"net/http"
	"strings"

	"arenasrv/config"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// requireUser resolves the caller from the X-User-ID header and stashes the
// parsed ID on the request context.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			writeBadRequest(w, "missing X-User-ID header")
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid X-User-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

// requireAdmin gates a route behind the configured admin bearer tokens
func requireAdmin(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimPrefix(auth, "Bearer ")
			if token == "" || token == auth || !cfg.IsAdminToken(token) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "admin token required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
