package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
)

// memStore is an in-memory Catalog for engine tests
type memStore struct {
	mu          sync.Mutex
	habits      map[string]models.Habit
	frequencies map[string]models.HabitFrequency
	tracking    map[string]map[int64]models.HabitTracking

	upserts      int
	streakWrites int
	failUpsert   error
	failStreak   error
}

func newMemStore() *memStore {
	return &memStore{
		habits:      make(map[string]models.Habit),
		frequencies: make(map[string]models.HabitFrequency),
		tracking:    make(map[string]map[int64]models.HabitTracking),
	}
}

func (m *memStore) addHabit(h models.Habit, f models.HabitFrequency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.Status == "" {
		h.Status = models.HabitStatusActive
	}
	f.HabitID = h.ID
	m.habits[h.ID] = h
	m.frequencies[h.ID] = f
}

func (m *memStore) GetHabit(_ context.Context, id string) (models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return models.Habit{}, apperrors.NotFoundf("habit %s", id)
	}
	return h, nil
}

func (m *memStore) ListHabits(_ context.Context, includeArchived bool) ([]models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Habit
	for _, h := range m.habits {
		if h.Status == models.HabitStatusArchived && !includeArchived {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memStore) GetFrequencyForHabit(_ context.Context, habitID string) (models.HabitFrequency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.frequencies[habitID]
	if !ok {
		return models.HabitFrequency{}, apperrors.NotFoundf("frequency for habit %s", habitID)
	}
	return f, nil
}

func (m *memStore) GetTrackingForDate(_ context.Context, habitID string, date int64) (models.HabitTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.tracking[habitID][date]
	if !ok {
		return models.HabitTracking{}, apperrors.NotFoundf("tracking for habit %s", habitID)
	}
	return rec, nil
}

func (m *memStore) GetTrackingRange(_ context.Context, habitID string, from, to int64) ([]models.HabitTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HabitTracking
	for day, rec := range m.tracking[habitID] {
		if day >= from && day <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) UpsertTracking(_ context.Context, rec models.HabitTracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return m.failUpsert
	}
	if m.tracking[rec.HabitID] == nil {
		m.tracking[rec.HabitID] = make(map[int64]models.HabitTracking)
	}
	if existing, ok := m.tracking[rec.HabitID][rec.Date]; ok && existing.ID != rec.ID {
		return errors.New("duplicate tracking record for the same day")
	}
	m.tracking[rec.HabitID][rec.Date] = rec
	m.upserts++
	return nil
}

func (m *memStore) DeleteTracking(_ context.Context, habitID string, date int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tracking[habitID], date)
	return nil
}

func (m *memStore) UpdateStreakFields(_ context.Context, habitID string, current, best int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStreak != nil {
		return m.failStreak
	}
	h, ok := m.habits[habitID]
	if !ok {
		return apperrors.NotFoundf("habit %s", habitID)
	}
	h.CurrentStreak = current
	h.BestStreak = best
	m.habits[habitID] = h
	m.streakWrites++
	return nil
}

func (m *memStore) recordCount(habitID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracking[habitID])
}

func (m *memStore) habit(id string) models.Habit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.habits[id]
}

// day returns local midnight of 2025-06-<n> in UTC; 2025-06-02 is a Monday.
func day(n int) time.Time {
	return time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
