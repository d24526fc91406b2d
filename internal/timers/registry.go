package timers

import (
	"sync"
	"time"
)

// Registry tracks cancelable timers by id. Every scheduled callback is held
// through an id-indexed handle so removal, clear-all, and teardown can cancel
// it before it fires; a canceled callback never runs. Both toast expiry and
// the checkout settlement delay run through a shared Registry.
type Registry struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewRegistry creates an empty timer registry.
func NewRegistry() *Registry {
	return &Registry{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule runs fn after d, replacing any pending timer registered under the
// same id. Scheduling on a stopped registry is a no-op.
func (r *Registry) Schedule(id string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	if t, ok := r.timers[id]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		// Deregister before running fn so a callback observing the
		// registry sees itself already gone. The identity check drops
		// callbacks that were canceled or replaced after firing.
		r.mu.Lock()
		cur, ok := r.timers[id]
		if !ok || cur != t {
			r.mu.Unlock()
			return
		}
		delete(r.timers, id)
		r.mu.Unlock()

		fn()
	})
	r.timers[id] = t
}

// Cancel stops the timer registered under id, reporting whether one was
// pending. After Cancel returns true the callback will not run.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, id)
	return true
}

// CancelAll stops every pending timer.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// Stop cancels all pending timers and rejects further scheduling. Used at
// teardown.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
	r.stopped = true
}

// Len returns the number of pending timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
