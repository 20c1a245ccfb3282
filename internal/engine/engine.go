package engine

import (
	"time"
)

// Engine implements the progress tracker and the streak engine on top of a Store.
// Every operation on a habit runs under that habit's lock, so callers may
// invoke it concurrently without creating duplicate tracking records.
type Engine struct {
	store Store
	loc   *time.Location
	now   func() time.Time
	newID func() string
	locks *habitLocks
}

// StreakResult is the outcome of a streak recomputation
type StreakResult struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Option configures an Engine
type Option func(*Engine)

// WithLocation sets the timezone that defines local midnight. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock overrides the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how new tracking record IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// New creates an engine backed by store
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		newID: newUUID,
		locks: newHabitLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the timezone the engine normalizes dates in
func (e *Engine) Location() *time.Location {
	return e.loc
}
