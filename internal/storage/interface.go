package storage

import (
	"context"
	"time"

	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
)

// Provider is a habit store that also serves the engine.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations and returns how many ran.
	Migrate(ctx context.Context) (int, error)
	// Location is the timezone tracking dates are normalized in.
	Location() *time.Location

	engine.Store

	// Habits
	CreateHabit(ctx context.Context, habit models.Habit, freq models.HabitFrequency) error
	// UpdateHabit writes every field except the streak counters.
	UpdateHabit(ctx context.Context, habit models.Habit) error
	GetHabitByTitle(ctx context.Context, title string) (models.Habit, error)
	ListHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error)
	// DeleteHabit removes the habit with its frequency and tracking history.
	DeleteHabit(ctx context.Context, habitID string) error

	// Frequencies
	ReplaceFrequency(ctx context.Context, freq models.HabitFrequency) error
	// NormalizeDaysOfWeek rewrites stored day lists in canonical form and
	// returns how many rows changed.
	NormalizeDaysOfWeek(ctx context.Context) (int, error)

	// Utils
	GetConfigPath() string
}
