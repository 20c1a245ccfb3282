package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/metrics"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// History indexes a habit's tracking records by their day (epoch millis).
type History map[int64]models.HabitTracking

// IndexHistory builds a History from a list of records.
func IndexHistory(records []models.HabitTracking) History {
	h := make(History, len(records))
	for _, r := range records {
		h[r.Date] = r
	}
	return h
}

// Earliest returns the smallest recorded day, or false for an empty history.
func (h History) Earliest() (int64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	earliest := int64(math.MaxInt64)
	for day := range h {
		if day < earliest {
			earliest = day
		}
	}
	return earliest, true
}

// ComputeStreak counts the run of completed scheduled days ending at date.
//
// The walk goes backward one calendar day at a time. Days that are not
// scheduled are skipped. The first scheduled day without a completed record
// ends the run, except date itself: an incomplete date yields the run ending
// the day before. Nothing can be completed before the earliest record, so
// the walk stops there.
func ComputeStreak(freq models.HabitFrequency, history History, date time.Time, loc *time.Location) int {
	earliest, ok := history.Earliest()
	if !ok {
		return 0
	}

	anchor := utils.StartOfDay(date, loc)
	streak := 0
	for day := anchor; day.UnixMilli() >= earliest; day = utils.PreviousDay(day, loc) {
		if !IsDue(freq, day) {
			continue
		}
		rec, found := history[day.UnixMilli()]
		switch {
		case found && rec.IsCompleted:
			streak++
		case day.Equal(anchor):
			// the changed date itself does not break the run before it
		default:
			return streak
		}
	}
	return streak
}

// RecomputeStreak rebuilds the current and best streak of habitID from its
// stored history, as of date, and persists both. Best never decreases.
func (e *Engine) RecomputeStreak(ctx context.Context, habitID string, date time.Time) (StreakResult, error) {
	unlock := e.locks.lock(habitID)
	defer unlock()

	habit, err := e.store.GetHabit(ctx, habitID)
	if err != nil {
		metrics.StreakRecomputations.WithLabelValues("error").Inc()
		return StreakResult{}, fmt.Errorf("recompute streak: %w", err)
	}
	freq, err := e.store.GetFrequencyForHabit(ctx, habitID)
	if err != nil {
		metrics.StreakRecomputations.WithLabelValues("error").Inc()
		return StreakResult{}, fmt.Errorf("recompute streak: frequency for habit %s: %w", habitID, err)
	}

	return e.recompute(ctx, habit, freq, utils.StartOfDay(date, e.loc))
}

// recompute expects the caller to hold the habit's lock.
func (e *Engine) recompute(ctx context.Context, habit models.Habit, freq models.HabitFrequency, day time.Time) (StreakResult, error) {
	records, err := e.store.GetTrackingRange(ctx, habit.ID, math.MinInt64, day.UnixMilli())
	if err != nil {
		metrics.StreakRecomputations.WithLabelValues("error").Inc()
		return StreakResult{}, fmt.Errorf("recompute streak: read history: %w", err)
	}

	current := ComputeStreak(freq, IndexHistory(records), day, e.loc)
	result := StreakResult{
		Current: current,
		Best:    max(habit.BestStreak, current),
	}

	if err := e.store.UpdateStreakFields(ctx, habit.ID, result.Current, result.Best); err != nil {
		logger.Error("Failed to persist streak", "habit", habit.ID, "error", err)
		metrics.StreakRecomputations.WithLabelValues("error").Inc()
		return StreakResult{}, fmt.Errorf("recompute streak: write: %w", err)
	}

	logger.Debug("Recomputed streak",
		"habit", habit.ID,
		"date", day.Format("2006-01-02"),
		"current", result.Current,
		"best", result.Best,
	)
	metrics.StreakRecomputations.WithLabelValues("ok").Inc()
	metrics.StreakLength.Observe(float64(result.Current))

	return result, nil
}
