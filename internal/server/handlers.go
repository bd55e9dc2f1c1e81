package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/split"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body, userIDFromContext(r))
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	name, ok := exerciseParam(w, r)
	if !ok {
		return
	}

	var rr *overload.RepRange
	q := r.URL.Query()
	if q.Get("min") != "" || q.Get("max") != "" {
		lo, errMin := strconv.Atoi(q.Get("min"))
		hi, errMax := strconv.Atoi(q.Get("max"))
		if errMin != nil || errMax != nil || lo < 1 || hi < lo {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "min and max must be integers with 1 <= min <= max"})
			return
		}
		rr = &overload.RepRange{Min: lo, Max: hi}
	}

	target, err := s.coach.Target(r.Context(), userIDFromContext(r), name, rr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

func (s *Server) handlePlateau(w http.ResponseWriter, r *http.Request) {
	name, ok := exerciseParam(w, r)
	if !ok {
		return
	}
	result, err := s.coach.Plateau(r.Context(), userIDFromContext(r), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	report, err := s.coach.VolumeReport(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	table, err := s.coach.Landmarks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleDeload(w http.ResponseWriter, r *http.Request) {
	report, err := s.coach.Deload(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCreateSplit(w http.ResponseWriter, r *http.Request) {
	var opts coach.PlanOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	plan, err := s.coach.CreatePlan(r.Context(), userIDFromContext(r), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handlePreviewSplit(w http.ResponseWriter, r *http.Request) {
	var opts coach.PlanOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	plan, err := s.coach.PreviewPlan(r.Context(), userIDFromContext(r), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleActiveSplit(w http.ResponseWriter, r *http.Request) {
	plan, err := s.coach.ActivePlan(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	plan, err := s.coach.GetPlan(r.Context(), userIDFromContext(r), planID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	raw, _ := url.PathUnescape(chi.URLParam(r, "muscle"))
	muscle, err := models.ParseMuscleGroup(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"muscle":    muscle,
		"size":      models.SizeOf(muscle),
		"frequency": split.RecommendedFrequency(muscle),
	})
}

func (s *Server) handleTechniques(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, technique.Catalog())
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req coach.ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	exp, err := s.coach.Expand(r.Context(), userIDFromContext(r), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// exerciseParam returns the unescaped {name} path parameter.
func exerciseParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return "", false
	}
	return name, true
}

// writeError maps service errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coach.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, coach.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
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
