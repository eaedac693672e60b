package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fitcart/internal/session"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.workouts.State()
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.workouts.StartSession()
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.workouts.CancelSession)
}

func (s *Server) handleCompleteCurrent(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.workouts.Complete)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.workouts.CompleteSet)
}

func (s *Server) handleCompleteCardio(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.workouts.CompleteCardio)
}

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.workouts.MarkDone(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) sessionAction(w http.ResponseWriter, r *http.Request, fn func(context.Context) (session.State, error)) {
	st, err := fn(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
