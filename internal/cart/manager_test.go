package cart

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func centsPtr(v int64) *int64 { return &v }

func testProduct() *models.Product {
	return &models.Product{ID: 1, Name: "Headphones", Category: "audio", Price: 9999}
}

func TestAddItemClampsToDefaultCap(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()

	// Quantity tracks the number of adds until the default cap of 10.
	for i := 1; i <= 15; i++ {
		m.AddItem(ctx, "s1", p)
		expected := i
		if expected > models.DefaultStockCap {
			expected = models.DefaultStockCap
		}
		assert.Equal(t, expected, m.ItemQuantity(ctx, "s1", p.ID))
	}

	assert.Equal(t, models.DefaultStockCap, m.ItemQuantity(ctx, "s1", p.ID))
}

func TestAddItemClampsToProductStock(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()
	p.Stock = intPtr(3)

	for i := 0; i < 5; i++ {
		m.AddItem(ctx, "s1", p)
	}

	assert.Equal(t, 3, m.ItemQuantity(ctx, "s1", p.ID))
}

func TestUpdateQuantity(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()

	m.AddItem(ctx, "s1", p)

	m.UpdateQuantity(ctx, "s1", p.ID, 5)
	assert.Equal(t, 5, m.ItemQuantity(ctx, "s1", p.ID))

	// Above the cap clamps.
	m.UpdateQuantity(ctx, "s1", p.ID, 99)
	assert.Equal(t, models.DefaultStockCap, m.ItemQuantity(ctx, "s1", p.ID))

	// Zero or below removes the line.
	m.UpdateQuantity(ctx, "s1", p.ID, 0)
	assert.False(t, m.Contains(ctx, "s1", p.ID))
	assert.Equal(t, 0, m.ItemQuantity(ctx, "s1", p.ID))

	// Absent product is a no-op.
	m.UpdateQuantity(ctx, "s1", 42, 3)
	assert.False(t, m.Contains(ctx, "s1", 42))
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()

	m.RemoveItem(ctx, "s1", 42)
	assert.Equal(t, 0, m.Snapshot(ctx, "s1").TotalItems)
}

func TestSubtotalUsesEffectivePrice(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()

	regular := &models.Product{ID: 1, Name: "Speaker", Price: 9999}
	sale := &models.Product{ID: 2, Name: "Amp", Price: 14999, SalePrice: centsPtr(9999), OnSale: true}

	m.AddItem(ctx, "s1", regular)
	snap := m.Snapshot(ctx, "s1")
	assert.Equal(t, int64(9999), snap.Subtotal)

	m.Clear(ctx, "s1")
	m.AddItem(ctx, "s1", sale)
	snap = m.Snapshot(ctx, "s1")
	assert.Equal(t, int64(9999), snap.Subtotal)
}

func TestTotalsWithShipping(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()

	// Empty cart still carries the default standard shipping rate.
	snap := m.Snapshot(ctx, "s1")
	assert.Equal(t, 0, snap.TotalItems)
	assert.Equal(t, models.ShippingStandard, snap.Shipping)
	assert.Equal(t, int64(499), snap.ShippingCost)
	assert.Equal(t, int64(499), snap.Total)

	p := testProduct()
	m.AddItem(ctx, "s1", p)
	m.AddItem(ctx, "s1", p)

	require.NoError(t, m.SetShipping(ctx, "s1", models.ShippingExpress))
	snap = m.Snapshot(ctx, "s1")
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, int64(2*9999), snap.Subtotal)
	assert.Equal(t, int64(999), snap.ShippingCost)
	assert.Equal(t, int64(2*9999+999), snap.Total)

	require.NoError(t, m.SetShipping(ctx, "s1", models.ShippingFree))
	assert.Equal(t, snap.Subtotal, m.Snapshot(ctx, "s1").Total)

	assert.ErrorIs(t, m.SetShipping(ctx, "s1", "overnight"), ErrUnknownShipping)
}

func TestClearKeepsShippingSelection(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()

	m.AddItem(ctx, "s1", testProduct())
	require.NoError(t, m.SetShipping(ctx, "s1", models.ShippingExpress))

	m.Clear(ctx, "s1")
	snap := m.Snapshot(ctx, "s1")
	assert.Empty(t, snap.Items)
	assert.Equal(t, models.ShippingExpress, snap.Shipping)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()

	m.AddItem(ctx, "s1", p)
	assert.True(t, m.Contains(ctx, "s1", p.ID))
	assert.False(t, m.Contains(ctx, "s2", p.ID))
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()

	m.AddItem(ctx, "s1", p)

	snap := m.Snapshot(ctx, "s1")
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, m.ItemQuantity(ctx, "s1", p.ID))
}

func TestDrainEmptiesCart(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	p := testProduct()

	m.AddItem(ctx, "s1", p)
	m.AddItem(ctx, "s1", p)

	snap := m.Drain(ctx, "s1")
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, 0, m.Snapshot(ctx, "s1").TotalItems)
}

func TestConfiguredDefaultStockCap(t *testing.T) {
	m := NewManager(nil, 3)
	ctx := context.Background()
	p := testProduct()

	for i := 0; i < 5; i++ {
		m.AddItem(ctx, "s1", p)
	}
	assert.Equal(t, 3, m.ItemQuantity(ctx, "s1", p.ID))

	// Declared product stock still wins over the configured default.
	withStock := testProduct()
	withStock.ID = 2
	withStock.Stock = intPtr(7)
	m.UpdateQuantity(ctx, "s1", withStock.ID, 99)
	m.AddItem(ctx, "s1", withStock)
	m.UpdateQuantity(ctx, "s1", withStock.ID, 99)
	assert.Equal(t, 7, m.ItemQuantity(ctx, "s1", withStock.ID))
}

// memSnapshots is an in-memory SnapshotStore for tests.
type memSnapshots struct {
	snaps map[string]models.CartSnapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{snaps: make(map[string]models.CartSnapshot)}
}

func (s *memSnapshots) SaveCartSnapshot(_ context.Context, snapshot *models.CartSnapshot, _ time.Duration) error {
	s.snaps[snapshot.SessionID] = *snapshot
	return nil
}

func (s *memSnapshots) LoadCartSnapshot(_ context.Context, sessionID string) (*models.CartSnapshot, error) {
	snap, ok := s.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *memSnapshots) DeleteCartSnapshot(_ context.Context, sessionID string) error {
	delete(s.snaps, sessionID)
	return nil
}

func TestLazyLoadFromSnapshotStore(t *testing.T) {
	snaps := newMemSnapshots()
	ctx := context.Background()
	p := testProduct()

	first := NewManager(snaps, 0)
	first.AddItem(ctx, "s1", p)
	first.AddItem(ctx, "s1", p)
	require.NoError(t, first.SetShipping(ctx, "s1", models.ShippingExpress))

	// A fresh manager over the same store picks the cart back up on
	// first access.
	second := NewManager(snaps, 0)
	snap := second.Snapshot(ctx, "s1")
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, models.ShippingExpress, snap.Shipping)
	assert.Equal(t, 2, second.ItemQuantity(ctx, "s1", p.ID))
}

func TestClearDropsSnapshot(t *testing.T) {
	snaps := newMemSnapshots()
	ctx := context.Background()

	m := NewManager(snaps, 0)
	m.AddItem(ctx, "s1", testProduct())
	require.Contains(t, snaps.snaps, "s1")

	// Clearing a cart with default shipping leaves nothing worth
	// persisting.
	m.Clear(ctx, "s1")
	assert.NotContains(t, snaps.snaps, "s1")
}

func TestClearKeepsSnapshotForNonDefaultShipping(t *testing.T) {
	snaps := newMemSnapshots()
	ctx := context.Background()

	m := NewManager(snaps, 0)
	m.AddItem(ctx, "s1", testProduct())
	require.NoError(t, m.SetShipping(ctx, "s1", models.ShippingFree))

	m.Clear(ctx, "s1")
	require.Contains(t, snaps.snaps, "s1")
	assert.Empty(t, snaps.snaps["s1"].Items)
	assert.Equal(t, models.ShippingFree, snaps.snaps["s1"].Shipping)
}

func TestDrainDropsSnapshot(t *testing.T) {
	snaps := newMemSnapshots()
	ctx := context.Background()

	m := NewManager(snaps, 0)
	m.AddItem(ctx, "s1", testProduct())

	snap := m.Drain(ctx, "s1")
	assert.Equal(t, 1, snap.TotalItems)
	assert.NotContains(t, snaps.snaps, "s1")
}
