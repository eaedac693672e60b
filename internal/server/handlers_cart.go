package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/catalog"
	"github.com/meltforce/fitcart/internal/models"
)

type bodyPartInfo struct {
	Key   models.BodyPart `json:"key"`
	Label string          `json:"label"`
}

func (s *Server) handleBodyParts(w http.ResponseWriter, r *http.Request) {
	parts := make([]bodyPartInfo, 0, len(models.BodyParts))
	for _, bp := range models.BodyParts {
		parts = append(parts, bodyPartInfo{Key: bp, Label: bp.Label()})
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("body_part")
	if q == "" {
		writeJSON(w, http.StatusOK, catalog.All())
		return
	}
	bp, err := models.ParseBodyPart(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog.ByBodyPart(bp))
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workouts.Cart().Items())
}

type addRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
}

type addResponse struct {
	Item  models.CartItem `json:"item"`
	Added bool            `json:"added"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ex, ok := catalog.Lookup(req.ExerciseID)
	if !ok {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}

	item, added := s.workouts.Cart().Add(ex)
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, addResponse{Item: item, Added: added})
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.workouts.Cart().Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req cart.Update
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	item, err := s.workouts.Cart().Apply(id, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := s.workouts.Cart().Remove(id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	item, err := s.workouts.Cart().ToggleCompleted(id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type moveRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleMoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c := s.workouts.Cart()
	if err := c.Move(id, req.Index); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Items())
}

func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart item ID")
		return uuid.UUID{}, false
	}
	return id, true
}
