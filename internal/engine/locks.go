package engine

import "sync"

// habitLocks serializes read-mutate-write cycles per habit. Entries are
// reference counted and dropped once no caller holds or waits on them.
type habitLocks struct {
	mu    sync.Mutex
	locks map[string]*habitLock
}

type habitLock struct {
	mu   sync.Mutex
	refs int
}

func newHabitLocks() *habitLocks {
	return &habitLocks{locks: make(map[string]*habitLock)}
}

// lock blocks until the caller owns habitID and returns the matching unlock.
func (l *habitLocks) lock(habitID string) func() {
	l.mu.Lock()
	hl, ok := l.locks[habitID]
	if !ok {
		hl = &habitLock{}
		l.locks[habitID] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.mu.Lock()

	return func() {
		hl.mu.Unlock()

		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.locks, habitID)
		}
		l.mu.Unlock()
	}
}

func (l *habitLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
