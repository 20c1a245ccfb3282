package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/metrics"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

const (
	opToggle    = "toggle"
	opIncrement = "increment"
	opDecrement = "decrement"
	opAdjust    = "adjust"
	opNotes     = "notes"
)

// mutation applies an operation to rec in place and reports whether anything changed.
// existed is false when rec was synthesized because no record was stored yet.
type mutation func(h models.Habit, target float64, rec *models.HabitTracking, existed bool) bool

// ToggleCompletion flips the completion state of habitID on date.
// Measured habits are set to their target or back to zero.
func (e *Engine) ToggleCompletion(ctx context.Context, habitID string, date time.Time) (models.HabitTracking, error) {
	return e.mutate(ctx, opToggle, habitID, date, toggle)
}

// IncrementProgress adds one unit (1.0 for QUANTITY, one minute for TIME).
// For BINARY habits it marks the day complete.
func (e *Engine) IncrementProgress(ctx context.Context, habitID string, date time.Time) (models.HabitTracking, error) {
	return e.mutate(ctx, opIncrement, habitID, date, adjust(1))
}

// DecrementProgress removes one unit, floored at zero. For BINARY habits it
// clears a completed day. Decrementing an empty or missing record is a no-op.
func (e *Engine) DecrementProgress(ctx context.Context, habitID string, date time.Time) (models.HabitTracking, error) {
	return e.mutate(ctx, opDecrement, habitID, date, adjust(-1))
}

// AdjustProgress applies an arbitrary delta with the same rules as increment
// and decrement. TIME deltas are rounded to whole minutes.
func (e *Engine) AdjustProgress(ctx context.Context, habitID string, date time.Time, delta float64) (models.HabitTracking, error) {
	return e.mutate(ctx, opAdjust, habitID, date, adjust(delta))
}

// SetNotes stores free-text notes for the day without touching completion.
func (e *Engine) SetNotes(ctx context.Context, habitID string, date time.Time, notes string) (models.HabitTracking, error) {
	return e.mutate(ctx, opNotes, habitID, date, func(_ models.Habit, _ float64, rec *models.HabitTracking, existed bool) bool {
		if rec.Notes == notes {
			return false
		}
		if !existed && notes == "" {
			return false
		}
		rec.Notes = notes
		return true
	})
}

func (e *Engine) mutate(ctx context.Context, op, habitID string, date time.Time, fn mutation) (models.HabitTracking, error) {
	unlock := e.locks.lock(habitID)
	defer unlock()

	habit, err := e.store.GetHabit(ctx, habitID)
	if err != nil {
		metrics.ProgressOperations.WithLabelValues(op, "", "error").Inc()
		return models.HabitTracking{}, fmt.Errorf("%s: %w", op, err)
	}
	htype := string(habit.Type)

	target, err := habit.Target()
	if err != nil {
		metrics.ProgressOperations.WithLabelValues(op, htype, "error").Inc()
		return models.HabitTracking{}, err
	}

	// Loaded before any write so a missing rule cannot leave a tracking
	// record behind without its streak update.
	freq, err := e.store.GetFrequencyForHabit(ctx, habitID)
	if err != nil {
		metrics.ProgressOperations.WithLabelValues(op, htype, "error").Inc()
		return models.HabitTracking{}, fmt.Errorf("%s: frequency for habit %s: %w", op, habitID, err)
	}

	day := utils.StartOfDay(date, e.loc)
	rec, existed, err := e.loadTracking(ctx, habit, day)
	if err != nil {
		metrics.ProgressOperations.WithLabelValues(op, htype, "error").Inc()
		return models.HabitTracking{}, err
	}
	prev := rec

	if !fn(habit, target, &rec, existed) {
		logger.Debug("Progress operation had no effect", "op", op, "habit", habitID, "date", day.Format("2006-01-02"))
		metrics.ProgressOperations.WithLabelValues(op, htype, "noop").Inc()
		return rec, nil
	}

	now := e.now()
	if !existed {
		rec.ID = e.newID()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := e.store.UpsertTracking(ctx, rec); err != nil {
		logger.Error("Failed to write tracking record", "op", op, "habit", habitID, "error", err)
		metrics.ProgressOperations.WithLabelValues(op, htype, "error").Inc()
		return models.HabitTracking{}, fmt.Errorf("%s: write tracking: %w", op, err)
	}

	if rec.IsCompleted != prev.IsCompleted {
		if _, err := e.recompute(ctx, habit, freq, day); err != nil {
			if rerr := e.restore(context.WithoutCancel(ctx), prev, existed); rerr != nil {
				logger.Error("Failed to restore tracking record", "op", op, "habit", habitID, "error", rerr)
			}
			metrics.ProgressOperations.WithLabelValues(op, htype, "error").Inc()
			return models.HabitTracking{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	metrics.ProgressOperations.WithLabelValues(op, htype, "applied").Inc()

	return rec, nil
}

// restore puts back the record that was stored before a write whose streak
// update failed. A record that did not exist is removed.
func (e *Engine) restore(ctx context.Context, prev models.HabitTracking, existed bool) error {
	if existed {
		return e.store.UpsertTracking(ctx, prev)
	}
	return e.store.DeleteTracking(ctx, prev.HabitID, prev.Date)
}

// ReapplyTarget re-derives the completion flag of every stored record of
// habitID from the habit's current target, then recomputes the streak as of
// date. It returns the streak and how many records changed.
func (e *Engine) ReapplyTarget(ctx context.Context, habitID string, date time.Time) (StreakResult, int, error) {
	unlock := e.locks.lock(habitID)
	defer unlock()

	habit, err := e.store.GetHabit(ctx, habitID)
	if err != nil {
		return StreakResult{}, 0, fmt.Errorf("reapply target: %w", err)
	}
	target, err := habit.Target()
	if err != nil {
		return StreakResult{}, 0, err
	}
	freq, err := e.store.GetFrequencyForHabit(ctx, habitID)
	if err != nil {
		return StreakResult{}, 0, fmt.Errorf("reapply target: frequency for habit %s: %w", habitID, err)
	}
	records, err := e.store.GetTrackingRange(ctx, habitID, math.MinInt64, math.MaxInt64)
	if err != nil {
		return StreakResult{}, 0, fmt.Errorf("reapply target: read history: %w", err)
	}

	now := e.now()
	changed := 0
	for _, rec := range records {
		completed := rec.IsCompleted
		switch habit.Type {
		case models.HabitTypeQuantity:
			completed = rec.Value != nil && *rec.Value >= target
		case models.HabitTypeTime:
			completed = rec.Duration != nil && float64(*rec.Duration) >= target
		}
		if completed == rec.IsCompleted {
			continue
		}
		rec.IsCompleted = completed
		rec.UpdatedAt = now
		if err := e.store.UpsertTracking(ctx, rec); err != nil {
			return StreakResult{}, changed, fmt.Errorf("reapply target: write tracking: %w", err)
		}
		changed++
	}

	res, err := e.recompute(ctx, habit, freq, utils.StartOfDay(date, e.loc))
	if err != nil {
		return StreakResult{}, changed, err
	}
	logger.Debug("Reapplied target", "habit", habitID, "target", target, "changed", changed)
	return res, changed, nil
}

// loadTracking returns the stored record for day, or a fresh record with
// type-appropriate defaults when there is none.
func (e *Engine) loadTracking(ctx context.Context, habit models.Habit, day time.Time) (models.HabitTracking, bool, error) {
	ms := day.UnixMilli()
	rec, err := e.store.GetTrackingForDate(ctx, habit.ID, ms)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return models.HabitTracking{}, false, fmt.Errorf("read tracking: %w", err)
	}

	rec = models.HabitTracking{HabitID: habit.ID, Date: ms}
	switch habit.Type {
	case models.HabitTypeQuantity:
		v := 0.0
		rec.Value = &v
	case models.HabitTypeTime:
		d := 0
		rec.Duration = &d
	}
	return rec, false, nil
}

func toggle(h models.Habit, target float64, rec *models.HabitTracking, _ bool) bool {
	switch h.Type {
	case models.HabitTypeQuantity:
		v := 0.0
		if !rec.IsCompleted {
			v = target
		}
		rec.Value = &v
		rec.IsCompleted = v >= target
	case models.HabitTypeTime:
		d := 0
		if !rec.IsCompleted {
			d = int(math.Ceil(target))
		}
		rec.Duration = &d
		rec.IsCompleted = float64(d) >= target
	default:
		rec.IsCompleted = !rec.IsCompleted
	}
	return true
}

func adjust(delta float64) mutation {
	return func(h models.Habit, target float64, rec *models.HabitTracking, existed bool) bool {
		switch h.Type {
		case models.HabitTypeQuantity:
			cur := 0.0
			if rec.Value != nil {
				cur = *rec.Value
			}
			next, ok := step(cur, delta, existed)
			if !ok {
				return false
			}
			rec.Value = &next
			rec.IsCompleted = next >= target
			return true
		case models.HabitTypeTime:
			minutes := math.Round(delta)
			cur := 0
			if rec.Duration != nil {
				cur = *rec.Duration
			}
			next, ok := step(float64(cur), minutes, existed)
			if !ok {
				return false
			}
			d := int(next)
			rec.Duration = &d
			rec.IsCompleted = float64(d) >= target
			return true
		default:
			switch {
			case delta > 0 && !rec.IsCompleted:
				rec.IsCompleted = true
				return true
			case delta < 0 && rec.IsCompleted:
				rec.IsCompleted = false
				return true
			}
			return false
		}
	}
}

// step applies delta to cur with a floor of zero. Removing from a missing or
// already empty record is a no-op.
func step(cur, delta float64, existed bool) (float64, bool) {
	switch {
	case delta == 0:
		return cur, false
	case delta < 0 && (!existed || cur <= 0):
		return cur, false
	}
	return math.Max(cur+delta, 0), true
}

func newUUID() string {
	return uuid.New().String()
}
