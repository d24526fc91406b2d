package toast

import (
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/timers"
	"storefront-service/internal/util"

	"github.com/google/uuid"
)

// Options control a single toast's lifetime.
type Options struct {
	// Duration overrides the manager default before expiry.
	Duration time.Duration
	// Persistent disables auto-expiry entirely.
	Persistent bool
}

// Manager keeps a bounded FIFO of toasts with auto-expiry. Adding past the
// cap evicts the oldest records and cancels their timers; no operation here
// can fail. Expiry timers live in an id-keyed registry so a removed toast's
// timer can never fire against a record that no longer exists.
type Manager struct {
	mu       sync.Mutex
	toasts   []models.Toast
	registry *timers.Registry
	max      int
	duration time.Duration
}

// NewManager creates a toast manager with the given queue cap and default
// display duration. Non-positive values fall back to 5 toasts / 3s.
func NewManager(registry *timers.Registry, max int, duration time.Duration) *Manager {
	if max <= 0 {
		max = 5
	}
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return &Manager{
		registry: registry,
		max:      max,
		duration: duration,
	}
}

// Add appends a toast and returns its id. When the queue would exceed the
// cap, the oldest toasts are evicted first and their expiry timers canceled.
func (m *Manager) Add(message, toastType string, opts *Options) string {
	t := models.Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      toastType,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.toasts = append(m.toasts, t)
	for len(m.toasts) > m.max {
		evicted := m.toasts[0]
		m.toasts = m.toasts[1:]
		m.registry.Cancel(evicted.ID)
		util.ToastsEvictedTotal.Inc()
		util.ToastsActive.Dec()
	}
	m.mu.Unlock()

	util.ToastsShownTotal.WithLabelValues(toastType).Inc()
	util.ToastsActive.Inc()

	duration := m.duration
	persistent := false
	if opts != nil {
		if opts.Duration > 0 {
			duration = opts.Duration
		}
		persistent = opts.Persistent
	}
	if !persistent {
		id := t.ID
		m.registry.Schedule(id, duration, func() {
			m.expire(id)
		})
	}

	return t.ID
}

// expire removes a toast whose timer fired. The registry has already dropped
// the handle.
func (m *Manager) expire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drop(id)
}

// Remove cancels a toast's expiry timer and deletes it. No-op when absent.
func (m *Manager) Remove(id string) {
	m.registry.Cancel(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drop(id)
}

// drop deletes a toast from the queue. Callers must hold the lock.
func (m *Manager) drop(id string) {
	for i := range m.toasts {
		if m.toasts[i].ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			util.ToastsActive.Dec()
			return
		}
	}
}

// Clear cancels every pending timer and empties the queue.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.toasts {
		m.registry.Cancel(t.ID)
		util.ToastsActive.Dec()
	}
	m.toasts = nil
}

// Pause cancels a toast's expiry timer without removing it, for
// hover-to-pause. Reports whether a timer was pending.
func (m *Manager) Pause(id string) bool {
	return m.registry.Cancel(id)
}

// Resume reschedules expiry for a paused toast. A non-positive duration uses
// the manager default. No-op when the toast no longer exists.
func (m *Manager) Resume(id string, duration time.Duration) {
	m.mu.Lock()
	found := false
	for i := range m.toasts {
		if m.toasts[i].ID == id {
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return
	}
	if duration <= 0 {
		duration = m.duration
	}
	m.registry.Schedule(id, duration, func() {
		m.expire(id)
	})
}

// List returns a copy of the queue, oldest first.
func (m *Manager) List() []models.Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// Teardown clears the queue and cancels all timers owned by this manager.
func (m *Manager) Teardown() {
	m.Clear()
}

// Success shows a success toast.
func (m *Manager) Success(message string) string {
	return m.Add(message, models.ToastSuccess, nil)
}

// Error shows an error toast.
func (m *Manager) Error(message string) string {
	return m.Add(message, models.ToastError, nil)
}

// Info shows an info toast.
func (m *Manager) Info(message string) string {
	return m.Add(message, models.ToastInfo, nil)
}

// Warning shows a warning toast.
func (m *Manager) Warning(message string) string {
	return m.Add(message, models.ToastWarning, nil)
}
