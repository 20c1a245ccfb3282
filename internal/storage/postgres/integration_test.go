package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://habitkit_user@localhost:5432/habitkit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()

	store := New(connStr, time.UTC)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	target := 3.0
	habit := models.Habit{
		ID:          "pg-habit-1",
		Title:       "PostgreSQL water " + now.Format(time.RFC3339Nano),
		Type:        models.HabitTypeQuantity,
		TargetValue: &target,
		Status:      models.HabitStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	freq := models.HabitFrequency{ID: "pg-freq-1", Type: models.FrequencySpecificDays, DaysOfWeek: []int{3, 1}}

	_ = store.DeleteHabit(ctx, habit.ID)
	if err := store.CreateHabit(ctx, habit, freq); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	defer store.DeleteHabit(ctx, habit.ID)

	t.Run("Frequency", func(t *testing.T) {
		f, err := store.GetFrequencyForHabit(ctx, habit.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(f.DaysOfWeek) != 2 || f.DaysOfWeek[0] != 1 || f.DaysOfWeek[1] != 3 {
			t.Errorf("days = %v, want [1 3]", f.DaysOfWeek)
		}
	})

	t.Run("Engine", func(t *testing.T) {
		eng := engine.New(store, engine.WithLocation(time.UTC))
		monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			if _, err := eng.IncrementProgress(ctx, habit.ID, monday); err != nil {
				t.Fatal(err)
			}
		}
		rec, err := store.GetTrackingForDate(ctx, habit.ID, monday.UnixMilli())
		if err != nil {
			t.Fatal(err)
		}
		if !rec.IsCompleted || rec.Value == nil || *rec.Value != 3 {
			t.Errorf("unexpected record: %+v", rec)
		}
		h, err := store.GetHabit(ctx, habit.ID)
		if err != nil {
			t.Fatal(err)
		}
		if h.CurrentStreak != 1 || h.BestStreak != 1 {
			t.Errorf("streaks = %d/%d, want 1/1", h.CurrentStreak, h.BestStreak)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.DeleteHabit(ctx, habit.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := store.GetFrequencyForHabit(ctx, habit.ID); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("frequency should cascade, got %v", err)
		}
	})
}
