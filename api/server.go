package api

import (
	"net/http"

	"arenasrv/config"
	"arenasrv/service"
	"arenasrv/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the HTTP surface over the service layer
type Server struct {
	cfg         *config.Config
	users       service.UserService
	matches     service.MatchService
	results     service.ResultService
	screenshots *storage.ScreenshotStore
	feed        *Feed
}

// NewServer creates the HTTP server. The screenshot store may be nil, in
// which case result uploads must carry a URL instead of a file.
func NewServer(cfg *config.Config, users service.UserService, matches service.MatchService, results service.ResultService, screenshots *storage.ScreenshotStore, feed *Feed) *Server {
	return &Server{
		cfg:         cfg,
		users:       users,
		matches:     matches,
		results:     results,
		screenshots: screenshots,
		feed:        feed,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ws", s.feed.Handler())

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Get("/{userID}", s.handleGetUser)
			r.Get("/{userID}/ledger", s.handleGetLedger)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", s.handleListMatches)
			r.Get("/{matchID}", s.handleGetMatch)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Post("/", s.handleCreateMatch)
				r.Post("/{matchID}/join", s.handleJoinMatch)
				r.Post("/{matchID}/ready", s.handleSetReady)
				r.Post("/{matchID}/result", s.handleSubmitResult)
				r.Post("/{matchID}/cancel", s.handleCancelMatch)
				r.Get("/mine", s.handleListMyMatches)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(s.cfg))
			r.Get("/users", s.handleListUsers)
			r.Get("/review-queue", s.handleReviewQueue)
			r.Post("/matches/{matchID}/verify", s.handleVerify)
			r.Post("/matches/{matchID}/cancel", s.handleAdminCancel)
			r.Delete("/matches/{matchID}", s.handleDeleteMatch)
			r.Post("/users/{userID}/balance", s.handleAdjustBalance)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
