package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// HabitProgress is a habit together with its state on one day
type HabitProgress struct {
	Habit     models.Habit          `json:"habit"`
	Frequency models.HabitFrequency `json:"frequency"`
	Tracking  models.HabitTracking  `json:"tracking"`
	Date      time.Time             `json:"date"`
	IsDue     bool                  `json:"is_due"`
	// Progress is value/target clamped to [0, 1]; 0 or 1 for BINARY habits.
	Progress float64 `json:"progress"`
	// PeriodCompletions and PeriodTarget are set for TIMES_PER_* habits only.
	PeriodCompletions int `json:"period_completions,omitempty"`
	PeriodTarget      int `json:"period_target,omitempty"`
}

// Aggregator builds per-day views of habits for presentation
type Aggregator struct {
	catalog Catalog
	loc     *time.Location
}

// NewAggregator creates an aggregator that normalizes dates in loc
func NewAggregator(catalog Catalog, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{catalog: catalog, loc: loc}
}

// Overview returns the view of every listed habit on date. Archived habits
// are left out unless includeArchived is set.
func (a *Aggregator) Overview(ctx context.Context, date time.Time, includeArchived bool) ([]HabitProgress, error) {
	habits, err := a.catalog.ListHabits(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	views := make([]HabitProgress, 0, len(habits))
	for _, h := range habits {
		v, err := a.build(ctx, h, date)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// ForHabit returns the view of a single habit on date
func (a *Aggregator) ForHabit(ctx context.Context, habitID string, date time.Time) (HabitProgress, error) {
	h, err := a.catalog.GetHabit(ctx, habitID)
	if err != nil {
		return HabitProgress{}, err
	}
	return a.build(ctx, h, date)
}

func (a *Aggregator) build(ctx context.Context, h models.Habit, date time.Time) (HabitProgress, error) {
	day := utils.StartOfDay(date, a.loc)

	freq, err := a.catalog.GetFrequencyForHabit(ctx, h.ID)
	if err != nil {
		return HabitProgress{}, fmt.Errorf("frequency for habit %q: %w", h.Title, err)
	}

	rec, err := a.catalog.GetTrackingForDate(ctx, h.ID, day.UnixMilli())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return HabitProgress{}, fmt.Errorf("tracking for habit %q: %w", h.Title, err)
		}
		rec = models.HabitTracking{HabitID: h.ID, Date: day.UnixMilli()}
	}

	v := HabitProgress{
		Habit:     h,
		Frequency: freq,
		Tracking:  rec,
		Date:      day,
		IsDue:     h.Status == models.HabitStatusActive && IsDue(freq, day),
		Progress:  progress(h, rec),
	}

	if period := freq.Period(); period != "" && freq.TimesPerPeriod != nil {
		start, end := utils.WeekBounds(day, a.loc)
		if period == models.PeriodMonth {
			start, end = utils.MonthBounds(day, a.loc)
		}
		records, err := a.catalog.GetTrackingRange(ctx, h.ID, start.UnixMilli(), end.UnixMilli()-1)
		if err != nil {
			return HabitProgress{}, fmt.Errorf("period tracking for habit %q: %w", h.Title, err)
		}
		for _, r := range records {
			if r.IsCompleted {
				v.PeriodCompletions++
			}
		}
		v.PeriodTarget = *freq.TimesPerPeriod
	}

	return v, nil
}

func progress(h models.Habit, rec models.HabitTracking) float64 {
	target, err := h.Target()
	if err != nil || !h.Type.NeedsTarget() {
		if rec.IsCompleted {
			return 1
		}
		return 0
	}

	var cur float64
	switch {
	case h.Type == models.HabitTypeQuantity && rec.Value != nil:
		cur = *rec.Value
	case h.Type == models.HabitTypeTime && rec.Duration != nil:
		cur = float64(*rec.Duration)
	}
	return min(max(cur/target, 0), 1)
}
