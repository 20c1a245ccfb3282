package engine

import (
	"context"

	"github.com/julianstephens/habitkit/internal/models"
)

// Store is the storage collaborator the engine reads and writes through.
// Lookups of missing rows must return an error wrapping errors.ErrNotFound.
type Store interface {
	GetHabit(ctx context.Context, habitID string) (models.Habit, error)
	GetFrequencyForHabit(ctx context.Context, habitID string) (models.HabitFrequency, error)
	GetTrackingForDate(ctx context.Context, habitID string, date int64) (models.HabitTracking, error)
	// GetTrackingRange returns the habit's records with from <= date <= to.
	GetTrackingRange(ctx context.Context, habitID string, from, to int64) ([]models.HabitTracking, error)
	UpsertTracking(ctx context.Context, tracking models.HabitTracking) error
	// DeleteTracking removes the record for (habit, date). A missing record is not an error.
	DeleteTracking(ctx context.Context, habitID string, date int64) error
	// UpdateStreakFields writes both streak counters in a single statement.
	UpdateStreakFields(ctx context.Context, habitID string, current, best int) error
}

// Catalog extends Store with the listing the aggregator needs.
type Catalog interface {
	Store
	// ListHabits returns ACTIVE and PAUSED habits, plus ARCHIVED ones when includeArchived is set.
	ListHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error)
}
