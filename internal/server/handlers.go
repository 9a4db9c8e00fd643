package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/repforge/internal/models"
	"github.com/claude/repforge/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := ex.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.CreateExercise(r.Context(), &ex); err != nil {
		s.log.Error("create exercise failed", "name", ex.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	ex, err := s.db.GetExercise(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	equipment := r.URL.Query().Get("equipment")
	muscle := r.URL.Query().Get("muscle")

	exercises, err := s.db.ListExercises(r.Context(), equipment, muscle)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleDeactivateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	if err := s.db.DeactivateExercise(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var set models.LoggedSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	set.UserID = userIDFromContext(r)
	if set.PerformedAt.IsZero() {
		set.PerformedAt = time.Now().UTC()
	}
	if err := set.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.InsertLoggedSet(r.Context(), &set); err != nil {
		s.log.Error("insert set failed", "exercise_id", set.ExerciseID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	set, err := s.db.GetLoggedSet(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleQuerySets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sets, err := s.db.QuerySetsWindow(r.Context(), userIDFromContext(r), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// setPatch carries a soft weight/reps correction.
type setPatch struct {
	WeightLbs *float64 `json:"weight_lbs,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	var patch setPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if patch.WeightLbs == nil && patch.Reps == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	uid := userIDFromContext(r)
	set, err := s.db.UpdateLoggedSet(r.Context(), id, uid, patch.WeightLbs, patch.Reps)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Corrections leave historical snapshots alone, but snapshots from the
	// set's date onward were computed from stale numbers.
	if _, err := s.db.InvalidateStatesSince(r.Context(), uid, set.PerformedAt); err != nil {
		s.log.Error("snapshot invalidation failed", "set_id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	uid := userIDFromContext(r)
	performedAt, err := s.db.DeleteLoggedSet(r.Context(), id, uid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
		return
	}

	// Any fatigue calculation that included the set is no longer valid.
	if _, err := s.db.InvalidateStatesSince(r.Context(), uid, performedAt); err != nil {
		s.log.Error("snapshot invalidation failed", "set_id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// muscleEntry is one row of the canonical muscle catalog.
type muscleEntry struct {
	Name  string             `json:"name"`
	Group models.MuscleGroup `json:"muscle_group"`
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	names := models.KnownMuscles()
	muscles := make([]muscleEntry, 0, len(names))
	for _, name := range names {
		muscles = append(muscles, muscleEntry{Name: name, Group: models.GroupOf(name)})
	}
	writeJSON(w, http.StatusOK, muscles)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
