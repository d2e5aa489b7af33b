package mealinfo

import (
	"sync"
	"time"
)

// SearchTracker remembers which search is the newest, so results of searches
// that were overtaken can be recognized and dropped.
type SearchTracker struct {
	current     string
	startedAt   map[string]time.Time
	staleCount  int
	lastSuccess time.Time
	mutex       *sync.Mutex
}

func NewSearchTracker() *SearchTracker {
	tracker := new(SearchTracker)
	tracker.startedAt = make(map[string]time.Time)
	tracker.mutex = &sync.Mutex{}
	return tracker
}

// Begin makes id the current search.
func (t *SearchTracker) Begin(id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.current = id
	t.startedAt[id] = time.Now()
}

func (t *SearchTracker) IsCurrent(id string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.current == id
}

// Finish forgets id and reports whether it was still the current search.
func (t *SearchTracker) Finish(id string, succeeded bool) (current bool, elapsed time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if started, ok := t.startedAt[id]; ok {
		elapsed = time.Since(started)
		delete(t.startedAt, id)
	}

	if t.current != id {
		t.staleCount++
		return false, elapsed
	}

	if succeeded {
		t.lastSuccess = time.Now()
	}

	return true, elapsed
}

func (t *SearchTracker) StaleCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.staleCount
}

func (t *SearchTracker) InFlight() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return len(t.startedAt)
}

func (t *SearchTracker) LastSuccess() time.Time {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.lastSuccess
}
