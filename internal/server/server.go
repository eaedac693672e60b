package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
)

// ProfileStore loads and saves the energy profile. *profile.Store satisfies it.
type ProfileStore interface {
	Load(ctx context.Context) (nutrition.Profile, error)
	Save(ctx context.Context, p nutrition.Profile) error
}

// History lists past sessions. *storage.DB satisfies it.
type History interface {
	QuerySessionLogs(ctx context.Context, start, end time.Time, limit int) ([]storage.SessionLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts *workout.Manager
	profiles ProfileStore
	history  History
	log      *slog.Logger
	apiKey   string
	router   chi.Router
	now      func() time.Time
}

// New creates a new Server with all routes configured. history may be nil
// when no database is configured.
func New(workouts *workout.Manager, profiles ProfileStore, history History, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		workouts: workouts,
		profiles: profiles,
		history:  history,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		now:      time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches h under pattern behind API key auth. Used for the MCP
// streamable HTTP endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Reads are open; tsnet handles access.
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/body-parts", s.handleBodyParts)
		r.Get("/cart", s.handleGetCart)
		r.Get("/session", s.handleGetSession)
		r.Get("/profile", s.handleGetProfile)
		r.Get("/energy", s.handleEnergy)
		r.Get("/history", s.handleHistory)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Post("/cart", s.handleAddToCart)
			r.Delete("/cart", s.handleClearCart)
			r.Patch("/cart/{id}", s.handleUpdateCartItem)
			r.Delete("/cart/{id}", s.handleRemoveCartItem)
			r.Post("/cart/{id}/toggle", s.handleToggleCartItem)
			r.Post("/cart/{id}/move", s.handleMoveCartItem)

			r.Post("/session", s.handleStartSession)
			r.Delete("/session", s.handleCancelSession)
			r.Post("/session/complete", s.handleCompleteCurrent)
			r.Post("/session/sets", s.handleCompleteSet)
			r.Post("/session/cardio", s.handleCompleteCardio)
			r.Post("/session/entries/{id}/done", s.handleMarkDone)

			r.Put("/profile", s.handlePutProfile)
		})
	})
}
