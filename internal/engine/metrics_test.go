package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/julianstephens/habitkit/internal/metrics"
	"github.com/julianstephens/habitkit/internal/models"
)

func TestOperationsAreCounted(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "water", Title: "Water", Type: models.HabitTypeQuantity, TargetValue: floatPtr(1)}, daily())
	eng := newTestEngine(store)
	ctx := context.Background()

	applied := metrics.ProgressOperations.WithLabelValues(opIncrement, "QUANTITY", "applied")
	noop := metrics.ProgressOperations.WithLabelValues(opDecrement, "QUANTITY", "noop")
	streaks := metrics.StreakRecomputations.WithLabelValues("ok")

	beforeApplied := testutil.ToFloat64(applied)
	beforeNoop := testutil.ToFloat64(noop)
	beforeStreaks := testutil.ToFloat64(streaks)

	if _, err := eng.IncrementProgress(ctx, "water", day(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.DecrementProgress(ctx, "water", day(3)); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(applied) - beforeApplied; got != 1 {
		t.Errorf("applied increments = %v, want 1", got)
	}
	if got := testutil.ToFloat64(noop) - beforeNoop; got != 1 {
		t.Errorf("no-op decrements = %v, want 1", got)
	}
	if got := testutil.ToFloat64(streaks) - beforeStreaks; got != 1 {
		t.Errorf("streak recomputations = %v, want 1", got)
	}
}
