package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/fitcart/internal/nutrition"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Load(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p nutrition.Profile
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p.Gender = nutrition.ParseGender(string(p.Gender))
	if err := s.profiles.Save(r.Context(), p); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleEnergy computes BMR/TDEE from the stored profile. Birthday and activity
// are per-request inputs. Unusable profile data yields null values plus a list
// of problems rather than an error status.
func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	now := s.now()

	birthday := nutrition.DefaultBirthday(now)
	if b := r.URL.Query().Get("birthday"); b != "" {
		parsed, err := time.Parse("2006-01-02", b)
		if err != nil {
			writeError(w, http.StatusBadRequest, "birthday must be YYYY-MM-DD")
			return
		}
		birthday = parsed
	}

	activity := nutrition.DefaultActivity
	if a := r.URL.Query().Get("activity"); a != "" {
		parsed, err := strconv.ParseFloat(a, 64)
		if err != nil || !nutrition.ValidActivity(parsed) {
			writeError(w, http.StatusBadRequest, "activity must be a number between 1.2 and 2.0")
			return
		}
		activity = parsed
	}

	p, err := s.profiles.Load(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nutrition.NewReport(p, birthday, activity, now))
}
