package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
)

func completed(days ...time.Time) History {
	h := make(History)
	for _, d := range days {
		h[d.UnixMilli()] = models.HabitTracking{Date: d.UnixMilli(), IsCompleted: true}
	}
	return h
}

func TestComputeStreak(t *testing.T) {
	mwf := models.HabitFrequency{Type: models.FrequencySpecificDays, DaysOfWeek: []int{1, 3, 5}}

	tests := []struct {
		name    string
		freq    models.HabitFrequency
		history History
		date    time.Time
		want    int
	}{
		{
			name:    "no history",
			freq:    daily(),
			history: History{},
			date:    day(5),
			want:    0,
		},
		{
			name:    "three consecutive days",
			freq:    daily(),
			history: completed(day(2), day(3), day(4)),
			date:    day(4),
			want:    3,
		},
		{
			name:    "gap breaks the run",
			freq:    daily(),
			history: completed(day(2), day(3), day(4), day(6)),
			date:    day(6),
			want:    1,
		},
		{
			name:    "incomplete anchor yields run ending the day before",
			freq:    daily(),
			history: completed(day(2), day(3)),
			date:    day(4),
			want:    2,
		},
		{
			name: "explicitly incomplete record breaks the run",
			freq: daily(),
			history: func() History {
				h := completed(day(2), day(4))
				h[day(3).UnixMilli()] = models.HabitTracking{Date: day(3).UnixMilli()}
				return h
			}(),
			date: day(4),
			want: 1,
		},
		{
			name:    "unscheduled days are transparent",
			freq:    mwf,
			history: completed(day(2), day(4), day(6)), // Mon, Wed, Fri
			date:    day(6),
			want:    3,
		},
		{
			name:    "unscheduled completion is not counted",
			freq:    mwf,
			history: completed(day(2), day(3)), // Mon, Tue
			date:    day(3),
			want:    1,
		},
		{
			name:    "missed scheduled day breaks specific-days run",
			freq:    mwf,
			history: completed(day(2), day(6)), // Mon, Fri; Wed missed
			date:    day(6),
			want:    1,
		},
		{
			name:    "later records are ignored",
			freq:    daily(),
			history: completed(day(2), day(3), day(4), day(5)),
			date:    day(3),
			want:    2,
		},
		{
			name:    "empty specific-days rule is never due",
			freq:    models.HabitFrequency{Type: models.FrequencySpecificDays},
			history: completed(day(2), day(3)),
			date:    day(3),
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(tt.freq, tt.history, tt.date, time.UTC); got != tt.want {
				t.Errorf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakScenario_SkipBreaksRun(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary}, daily())
	eng := newTestEngine(store)
	ctx := context.Background()

	for _, d := range []time.Time{day(1), day(2), day(3)} {
		if _, err := eng.ToggleCompletion(ctx, "run", d); err != nil {
			t.Fatal(err)
		}
	}
	if h := store.habit("run"); h.CurrentStreak != 3 || h.BestStreak != 3 {
		t.Fatalf("after days 1-3 streaks = %d/%d, want 3/3", h.CurrentStreak, h.BestStreak)
	}

	// day 4 skipped
	if _, err := eng.ToggleCompletion(ctx, "run", day(5)); err != nil {
		t.Fatal(err)
	}
	h := store.habit("run")
	if h.CurrentStreak != 1 {
		t.Errorf("current streak after gap = %d, want 1", h.CurrentStreak)
	}
	if h.BestStreak != 3 {
		t.Errorf("best streak after gap = %d, want 3", h.BestStreak)
	}
}

func TestStreakScenario_ToggleOffThenOnRestores(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary}, daily())
	eng := newTestEngine(store)
	ctx := context.Background()

	for _, d := range []time.Time{day(1), day(2), day(3)} {
		if _, err := eng.ToggleCompletion(ctx, "run", d); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := eng.ToggleCompletion(ctx, "run", day(3)); err != nil {
		t.Fatal(err)
	}
	if h := store.habit("run"); h.CurrentStreak != 2 || h.BestStreak != 3 {
		t.Fatalf("after toggling day 3 off streaks = %d/%d, want 2/3", h.CurrentStreak, h.BestStreak)
	}

	if _, err := eng.ToggleCompletion(ctx, "run", day(3)); err != nil {
		t.Fatal(err)
	}
	if h := store.habit("run"); h.CurrentStreak != 3 || h.BestStreak != 3 {
		t.Errorf("after toggling day 3 back on streaks = %d/%d, want 3/3", h.CurrentStreak, h.BestStreak)
	}
}

func TestStreakBackfill(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary}, daily())
	eng := newTestEngine(store)
	ctx := context.Background()

	for _, d := range []time.Time{day(2), day(3), day(5)} {
		if _, err := eng.ToggleCompletion(ctx, "run", d); err != nil {
			t.Fatal(err)
		}
	}
	if h := store.habit("run"); h.CurrentStreak != 1 || h.BestStreak != 2 {
		t.Fatalf("streaks = %d/%d, want 1/2", h.CurrentStreak, h.BestStreak)
	}

	// Backfilling day 4 closes the gap
	if _, err := eng.ToggleCompletion(ctx, "run", day(4)); err != nil {
		t.Fatal(err)
	}
	res, err := eng.RecomputeStreak(ctx, "run", day(5))
	if err != nil {
		t.Fatal(err)
	}
	if res.Current != 4 || res.Best != 4 {
		t.Errorf("after backfill streaks = %d/%d, want 4/4", res.Current, res.Best)
	}
}

func TestRecomputeStreakNoHistory(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary}, daily())
	eng := newTestEngine(store)

	res, err := eng.RecomputeStreak(context.Background(), "run", day(10))
	if err != nil {
		t.Fatal(err)
	}
	if res.Current != 0 || res.Best != 0 {
		t.Errorf("streaks = %+v, want zero", res)
	}
}

func TestRecomputeStreakKeepsStoredBest(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary, BestStreak: 12}, daily())
	eng := newTestEngine(store)

	res, err := eng.RecomputeStreak(context.Background(), "run", day(10))
	if err != nil {
		t.Fatal(err)
	}
	if res.Best != 12 {
		t.Errorf("best = %d, want stored 12", res.Best)
	}
}

func TestRecomputeStreakUnknownHabit(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store)

	_, err := eng.RecomputeStreak(context.Background(), "ghost", day(2))
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.streakWrites != 0 {
		t.Error("no streak write expected for unknown habit")
	}
}

func TestRecomputeStreakWriteFailure(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "run", Title: "Run", Type: models.HabitTypeBinary}, daily())
	eng := newTestEngine(store)
	ctx := context.Background()

	if _, err := eng.ToggleCompletion(ctx, "run", day(2)); err != nil {
		t.Fatal(err)
	}
	store.failStreak = errors.New("connection reset")

	if _, err := eng.RecomputeStreak(ctx, "run", day(3)); err == nil {
		t.Fatal("expected write error")
	}
	if h := store.habit("run"); h.CurrentStreak != 1 || h.BestStreak != 1 {
		t.Errorf("habit changed despite failed write: %d/%d", h.CurrentStreak, h.BestStreak)
	}
}

func TestBestStreakNeverDecreases(t *testing.T) {
	store := newMemStore()
	store.addHabit(models.Habit{ID: "gym", Title: "Gym", Type: models.HabitTypeQuantity, TargetValue: floatPtr(2)},
		models.HabitFrequency{Type: models.FrequencySpecificDays, DaysOfWeek: []int{1, 2, 4, 6}})
	eng := newTestEngine(store)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	prevBest := 0
	for i := 0; i < 500; i++ {
		d := day(1).AddDate(0, 0, rng.Intn(21))
		var err error
		switch rng.Intn(4) {
		case 0:
			_, err = eng.ToggleCompletion(ctx, "gym", d)
		case 1:
			_, err = eng.IncrementProgress(ctx, "gym", d)
		case 2:
			_, err = eng.DecrementProgress(ctx, "gym", d)
		case 3:
			_, err = eng.RecomputeStreak(ctx, "gym", d)
		}
		if err != nil {
			t.Fatalf("operation %d: %v", i, err)
		}

		h := store.habit("gym")
		if h.BestStreak < prevBest {
			t.Fatalf("operation %d: best streak dropped from %d to %d", i, prevBest, h.BestStreak)
		}
		if h.BestStreak < h.CurrentStreak {
			t.Fatalf("operation %d: best %d below current %d", i, h.BestStreak, h.CurrentStreak)
		}
		prevBest = h.BestStreak
	}

	if n := store.recordCount("gym"); n > 21 {
		t.Errorf("more records (%d) than days touched", n)
	}
}
