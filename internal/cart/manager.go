package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ErrUnknownShipping is returned when a shipping selection is not one of the
// defined options.
var ErrUnknownShipping = errors.New("unknown shipping option")

// Abandoned carts age out of the snapshot store after a week.
const snapshotTTL = 7 * 24 * time.Hour

// SnapshotStore persists cart snapshots across restarts. Implemented by
// redisclient.Client. All writes are best-effort; the in-memory cart is the
// source of truth while the process lives.
type SnapshotStore interface {
	SaveCartSnapshot(ctx context.Context, snapshot *models.CartSnapshot, ttl time.Duration) error
	LoadCartSnapshot(ctx context.Context, sessionID string) (*models.CartSnapshot, error)
	DeleteCartSnapshot(ctx context.Context, sessionID string) error
}

type sessionCart struct {
	items    []models.CartItem
	shipping string
}

// Manager holds every session's cart. Line items are unique per product id
// and quantities stay within [1, stock cap]. All reads hand out copies;
// callers never see live state.
type Manager struct {
	mu         sync.Mutex
	carts      map[string]*sessionCart
	snapshots  SnapshotStore
	defaultCap int
	logger     *zap.Logger
}

// NewManager creates a cart manager. snapshots may be nil, which disables
// persistence. defaultStockCap bounds lines whose product declares no stock;
// non-positive values fall back to models.DefaultStockCap.
func NewManager(snapshots SnapshotStore, defaultStockCap int) *Manager {
	if defaultStockCap <= 0 {
		defaultStockCap = models.DefaultStockCap
	}
	return &Manager{
		carts:      make(map[string]*sessionCart),
		snapshots:  snapshots,
		defaultCap: defaultStockCap,
		logger:     util.GetLogger(),
	}
}

// capOf returns the line quantity limit for a product: its declared stock,
// or the manager's configured default.
func (m *Manager) capOf(p *models.Product) int {
	if p.Stock != nil && *p.Stock > 0 {
		return *p.Stock
	}
	return m.defaultCap
}

// cartFor returns the live cart for a session, loading a persisted snapshot
// on first access. Callers must hold the lock.
func (m *Manager) cartFor(ctx context.Context, sessionID string) *sessionCart {
	if c, ok := m.carts[sessionID]; ok {
		return c
	}

	c := &sessionCart{shipping: models.ShippingStandard}
	if m.snapshots != nil {
		snap, err := m.snapshots.LoadCartSnapshot(ctx, sessionID)
		if err != nil {
			m.logger.Warn("Failed to load cart snapshot",
				zap.String("session_id", sessionID),
				zap.Error(err))
		} else if snap != nil {
			c.items = snap.Items
			if models.ValidShipping(snap.Shipping) {
				c.shipping = snap.Shipping
			}
		}
	}

	m.carts[sessionID] = c
	return c
}

// persist writes the session's cart back to the snapshot store. An emptied
// cart with nothing else worth keeping drops its snapshot instead.
func (m *Manager) persist(ctx context.Context, sessionID string, c *sessionCart) {
	if m.snapshots == nil {
		return
	}

	if len(c.items) == 0 && c.shipping == models.ShippingStandard {
		if err := m.snapshots.DeleteCartSnapshot(ctx, sessionID); err != nil {
			m.logger.Warn("Failed to delete cart snapshot",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
		return
	}

	snap := snapshotOf(sessionID, c)
	if err := m.snapshots.SaveCartSnapshot(ctx, &snap, snapshotTTL); err != nil {
		m.logger.Warn("Failed to save cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// AddItem adds one unit of product to the session's cart: a new line at
// quantity 1, or an increment clamped to the product's stock cap. Clamping
// is silent; the caller observes an unchanged quantity. Returns the
// resulting line quantity.
func (m *Manager) AddItem(ctx context.Context, sessionID string, product *models.Product) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			limit := m.capOf(&c.items[i].Product)
			if c.items[i].Quantity < limit {
				c.items[i].Quantity++
				util.CartItemsAddedTotal.Inc()
			} else {
				util.CartClampedTotal.Inc()
			}
			m.persist(ctx, sessionID, c)
			return c.items[i].Quantity
		}
	}

	c.items = append(c.items, models.CartItem{
		Product:  *product,
		Quantity: 1,
		AddedAt:  time.Now(),
	})
	util.CartItemsAddedTotal.Inc()
	m.persist(ctx, sessionID, c)
	return 1
}

// RemoveItem deletes the line for productID. No-op when absent.
func (m *Manager) RemoveItem(ctx context.Context, sessionID string, productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			util.CartItemsRemovedTotal.Inc()
			m.persist(ctx, sessionID, c)
			return
		}
	}
}

// UpdateQuantity sets the line quantity for productID. A quantity of zero or
// below removes the line; anything above the stock cap clamps to it. No-op
// when the product is not in the cart.
func (m *Manager) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) {
	if quantity <= 0 {
		m.RemoveItem(ctx, sessionID, productID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			limit := m.capOf(&c.items[i].Product)
			if quantity > limit {
				quantity = limit
				util.CartClampedTotal.Inc()
			}
			c.items[i].Quantity = quantity
			m.persist(ctx, sessionID, c)
			return
		}
	}
}

// Clear empties the session's cart. The shipping selection is untouched.
func (m *Manager) Clear(ctx context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)
	c.items = nil
	m.persist(ctx, sessionID, c)
}

// SetShipping selects the session's shipping option.
func (m *Manager) SetShipping(ctx context.Context, sessionID, option string) error {
	if !models.ValidShipping(option) {
		return ErrUnknownShipping
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)
	c.shipping = option
	m.persist(ctx, sessionID, c)
	return nil
}

// ItemQuantity returns the cart quantity for productID, 0 when absent.
func (m *Manager) ItemQuantity(ctx context.Context, sessionID string, productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return c.items[i].Quantity
		}
	}
	return 0
}

// Contains reports whether productID has a line in the cart.
func (m *Manager) Contains(ctx context.Context, sessionID string, productID int64) bool {
	return m.ItemQuantity(ctx, sessionID, productID) > 0
}

// Snapshot returns a copy of the session's cart with derived totals.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) models.CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return snapshotOf(sessionID, m.cartFor(ctx, sessionID))
}

// Drain atomically snapshots and empties the session's cart. Checkout calls
// this at settlement so the order captures exactly what was cleared.
func (m *Manager) Drain(ctx context.Context, sessionID string) models.CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cartFor(ctx, sessionID)
	snap := snapshotOf(sessionID, c)
	c.items = nil
	m.persist(ctx, sessionID, c)
	return snap
}

func snapshotOf(sessionID string, c *sessionCart) models.CartSnapshot {
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)

	var totalItems int
	var subtotal int64
	for i := range items {
		totalItems += items[i].Quantity
		subtotal += items[i].Product.EffectivePrice() * int64(items[i].Quantity)
	}

	cost := models.ShippingCost(c.shipping)
	return models.CartSnapshot{
		SessionID:    sessionID,
		Items:        items,
		Shipping:     c.shipping,
		TotalItems:   totalItems,
		Subtotal:     subtotal,
		ShippingCost: cost,
		Total:        subtotal + cost,
	}
}
