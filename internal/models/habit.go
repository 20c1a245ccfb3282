package models

import (
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
)

// HabitType is how a habit's daily progress is measured
type HabitType string

const (
	HabitTypeBinary   HabitType = "BINARY"
	HabitTypeQuantity HabitType = "QUANTITY"
	HabitTypeTime     HabitType = "TIME"
)

// HabitStatus is the lifecycle state of a habit
type HabitStatus string

const (
	HabitStatusActive   HabitStatus = "ACTIVE"
	HabitStatusPaused   HabitStatus = "PAUSED"
	HabitStatusArchived HabitStatus = "ARCHIVED"
)

// FrequencyType is the kind of schedule rule attached to a habit
type FrequencyType string

const (
	FrequencyDaily         FrequencyType = "DAILY"
	FrequencySpecificDays  FrequencyType = "SPECIFIC_DAYS"
	FrequencyTimesPerWeek  FrequencyType = "TIMES_PER_WEEK"
	FrequencyTimesPerMonth FrequencyType = "TIMES_PER_MONTH"
)

// PeriodType is the window a TIMES_PER_* quota is counted over
type PeriodType string

const (
	PeriodWeek  PeriodType = "WEEK"
	PeriodMonth PeriodType = "MONTH"
)

// Habit represents a recurring behavior to track
type Habit struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Type          HabitType   `json:"type"`
	TargetValue   *float64    `json:"target_value,omitempty"`
	CurrentStreak int         `json:"current_streak"`
	BestStreak    int         `json:"best_streak"`
	Status        HabitStatus `json:"status"`
	CategoryID    *string     `json:"category_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HabitFrequency is the schedule rule of a habit. There is exactly one per habit.
type HabitFrequency struct {
	ID             string        `json:"id"`
	HabitID        string        `json:"habit_id"`
	Type           FrequencyType `json:"type"`
	DaysOfWeek     []int         `json:"days_of_week,omitempty"` // 1 (Monday) .. 7 (Sunday)
	TimesPerPeriod *int          `json:"times_per_period,omitempty"`
	PeriodType     *PeriodType   `json:"period_type,omitempty"`
}

// HabitTracking is the progress record of a habit for a single day
type HabitTracking struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Date        int64     `json:"date"` // epoch millis at local midnight
	IsCompleted bool      `json:"is_completed"`
	Value       *float64  `json:"value,omitempty"`
	Duration    *int      `json:"duration,omitempty"` // minutes
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NeedsTarget reports whether the habit type is measured against a target value.
func (t HabitType) NeedsTarget() bool {
	return t == HabitTypeQuantity || t == HabitTypeTime
}

// IsValid reports whether t is a known habit type.
func (t HabitType) IsValid() bool {
	switch t {
	case HabitTypeBinary, HabitTypeQuantity, HabitTypeTime:
		return true
	}
	return false
}

// IsValid reports whether s is a known habit status.
func (s HabitStatus) IsValid() bool {
	switch s {
	case HabitStatusActive, HabitStatusPaused, HabitStatusArchived:
		return true
	}
	return false
}

// Target returns the habit's target value. Measured habits without a positive
// target are a data-integrity fault and yield ErrInvalidState.
func (h Habit) Target() (float64, error) {
	if !h.Type.NeedsTarget() {
		return 1, nil
	}
	if h.TargetValue == nil || *h.TargetValue <= 0 {
		return 0, fmt.Errorf("%w: %s habit %q has no target value", apperrors.ErrInvalidState, h.Type, h.Title)
	}
	return *h.TargetValue, nil
}

// Validate checks the habit's field-level invariants.
func (h Habit) Validate() error {
	if h.Title == "" {
		return fmt.Errorf("%w: habit title is required", apperrors.ErrInvalidState)
	}
	if !h.Type.IsValid() {
		return fmt.Errorf("%w: unknown habit type %q", apperrors.ErrInvalidState, h.Type)
	}
	if !h.Status.IsValid() {
		return fmt.Errorf("%w: unknown habit status %q", apperrors.ErrInvalidState, h.Status)
	}
	if _, err := h.Target(); err != nil {
		return err
	}
	if h.CurrentStreak < 0 || h.BestStreak < 0 {
		return fmt.Errorf("%w: streaks must not be negative", apperrors.ErrInvalidState)
	}
	if h.BestStreak < h.CurrentStreak {
		return fmt.Errorf("%w: best streak %d is below current streak %d", apperrors.ErrInvalidState, h.BestStreak, h.CurrentStreak)
	}
	return nil
}

// Validate checks that the optional fields match the frequency type.
func (f HabitFrequency) Validate() error {
	switch f.Type {
	case FrequencyDaily:
		if len(f.DaysOfWeek) > 0 || f.TimesPerPeriod != nil {
			return fmt.Errorf("%w: daily frequency takes no days or quota", apperrors.ErrInvalidState)
		}
	case FrequencySpecificDays:
		if len(f.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: specific-days frequency needs at least one day", apperrors.ErrInvalidState)
		}
		for _, d := range f.DaysOfWeek {
			if d < 1 || d > 7 {
				return fmt.Errorf("%w: day of week %d out of range 1-7", apperrors.ErrInvalidState, d)
			}
		}
		if f.TimesPerPeriod != nil {
			return fmt.Errorf("%w: specific-days frequency takes no quota", apperrors.ErrInvalidState)
		}
	case FrequencyTimesPerWeek, FrequencyTimesPerMonth:
		if f.TimesPerPeriod == nil || *f.TimesPerPeriod < 1 {
			return fmt.Errorf("%w: %s frequency needs a positive quota", apperrors.ErrInvalidState, f.Type)
		}
		if len(f.DaysOfWeek) > 0 {
			return fmt.Errorf("%w: %s frequency takes no days", apperrors.ErrInvalidState, f.Type)
		}
		if f.PeriodType != nil && *f.PeriodType != f.Period() {
			return fmt.Errorf("%w: period %s does not match %s", apperrors.ErrInvalidState, *f.PeriodType, f.Type)
		}
	default:
		return fmt.Errorf("%w: unknown frequency type %q", apperrors.ErrInvalidState, f.Type)
	}
	return nil
}

// Period returns the quota window for TIMES_PER_* frequencies and "" otherwise.
func (f HabitFrequency) Period() PeriodType {
	switch f.Type {
	case FrequencyTimesPerWeek:
		return PeriodWeek
	case FrequencyTimesPerMonth:
		return PeriodMonth
	}
	return ""
}
