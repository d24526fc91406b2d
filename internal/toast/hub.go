package toast

import (
	"sync"
	"time"

	"storefront-service/internal/timers"
)

// Hub hands out one toast Manager per session, all sharing a single timer
// registry. Managers are created lazily and live for the process lifetime.
type Hub struct {
	mu       sync.Mutex
	managers map[string]*Manager
	registry *timers.Registry
	max      int
	duration time.Duration
}

// NewHub creates a hub with per-manager defaults.
func NewHub(registry *timers.Registry, max int, duration time.Duration) *Hub {
	return &Hub{
		managers: make(map[string]*Manager),
		registry: registry,
		max:      max,
		duration: duration,
	}
}

// ForSession returns the session's toast manager, creating it on first use.
func (h *Hub) ForSession(sessionID string) *Manager {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.managers[sessionID]
	if !ok {
		m = NewManager(h.registry, h.max, h.duration)
		h.managers[sessionID] = m
	}
	return m
}
