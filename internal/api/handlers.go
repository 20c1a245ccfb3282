package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// HabitHandler serves the habit read and progress endpoints
type HabitHandler struct {
	engine     *engine.Engine
	aggregator *engine.Aggregator
	catalog    engine.Catalog
	timeout    time.Duration
}

func NewHabitHandler(catalog engine.Catalog, eng *engine.Engine) *HabitHandler {
	return &HabitHandler{
		engine:     eng,
		aggregator: engine.NewAggregator(catalog, eng.Location()),
		catalog:    catalog,
		timeout:    constants.RequestTimeout,
	}
}

type progressResponse struct {
	Tracking models.HabitTracking `json:"tracking"`
	Habit    models.Habit         `json:"habit"`
}

func (h *HabitHandler) date(r *http.Request) (time.Time, error) {
	return utils.DateOrToday(r.URL.Query().Get("date"), h.engine.Location())
}

func (h *HabitHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.catalog.ListHabits(ctx, false); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "storage unavailable",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": constants.AppName,
		"version": constants.Version,
	})
}

// ListHabits returns the day view of every non-archived habit.
// ?archived=true includes archived habits.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	date, err := h.date(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeArchived := false
	if raw := r.URL.Query().Get("archived"); raw != "" {
		if includeArchived, err = strconv.ParseBool(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'archived' must be a boolean")
			return
		}
	}

	views, err := h.aggregator.Overview(ctx, date, includeArchived)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	date, err := h.date(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.aggregator.ForHabit(ctx, mux.Vars(r)["id"], date)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, func(ctx context.Context, id string, date time.Time) (models.HabitTracking, error) {
		return h.engine.ToggleCompletion(ctx, id, date)
	})
}

// Increment accepts an optional ?by= step; the default is one unit.
func (h *HabitHandler) Increment(w http.ResponseWriter, r *http.Request) {
	by, err := step(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.progress(w, r, func(ctx context.Context, id string, date time.Time) (models.HabitTracking, error) {
		return h.engine.AdjustProgress(ctx, id, date, by)
	})
}

// Decrement accepts an optional ?by= step; the default is one unit.
func (h *HabitHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	by, err := step(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.progress(w, r, func(ctx context.Context, id string, date time.Time) (models.HabitTracking, error) {
		return h.engine.AdjustProgress(ctx, id, date, -by)
	})
}

func (h *HabitHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	date, err := h.date(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.RecomputeStreak(ctx, mux.Vars(r)["id"], date)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

type progressFunc func(ctx context.Context, habitID string, date time.Time) (models.HabitTracking, error)

func (h *HabitHandler) progress(w http.ResponseWriter, r *http.Request, op progressFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	date, err := h.date(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	rec, err := op(ctx, id, date)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}

	habit, err := h.catalog.GetHabit(ctx, id)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, progressResponse{Tracking: rec, Habit: habit})
}

func step(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("by")
	if raw == "" {
		return constants.ProgressStep, nil
	}
	by, err := strconv.ParseFloat(raw, 64)
	if err != nil || by <= 0 {
		return 0, fmt.Errorf("query parameter 'by' must be a positive number")
	}
	return by, nil
}
