package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ArchiveStore for tests.
type memStore struct {
	processed map[string]bool
	orders    []models.Order
	items     []models.OrderItem
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{processed: make(map[string]bool)}
}

func (s *memStore) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return s.processed[eventID], nil
}

func (s *memStore) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	s.processed[eventID] = true
	return nil
}

func (s *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.nextID++
	order.ID = s.nextID
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memStore) CreateOrderItem(_ context.Context, item *models.OrderItem) error {
	s.items = append(s.items, *item)
	return nil
}

// memCache is an in-memory IdempotencyCache for tests.
type memCache struct {
	keys   map[string]bool
	failed bool
}

func newMemCache() *memCache {
	return &memCache{keys: make(map[string]bool)}
}

func (c *memCache) CheckIdempotencyKey(_ context.Context, key string) (bool, error) {
	if c.failed {
		return false, errors.New("cache down")
	}
	return c.keys[key], nil
}

func (c *memCache) SetIdempotencyKey(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	if c.failed {
		return errors.New("cache down")
	}
	c.keys[key] = true
	return nil
}

func placedEvent() *models.OrderPlacedEvent {
	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderNumber:  "ORD-20260825-ABC123",
		SessionID:    "s1",
		Subtotal:     9999,
		Shipping:     models.ShippingStandard,
		ShippingCost: 499,
		Total:        10498,
		Items: []models.OrderItemData{
			{ProductID: 1, Name: "Lamp", Quantity: 2, UnitPrice: 2500},
			{ProductID: 2, Name: "Desk", Quantity: 1, UnitPrice: 4999},
		},
	}
}

func TestHandleOrderPlacedArchives(t *testing.T) {
	store := newMemStore()
	a := NewArchiver(store, nil)

	event := placedEvent()
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))

	require.Len(t, store.orders, 1)
	assert.Equal(t, event.OrderNumber, store.orders[0].OrderNumber)
	assert.Equal(t, event.Total, store.orders[0].Total)
	require.Len(t, store.items, 2)
	assert.Equal(t, store.orders[0].ID, store.items[0].OrderID)
	assert.True(t, store.processed[event.EventID])
}

func TestHandleOrderPlacedIsIdempotent(t *testing.T) {
	store := newMemStore()
	a := NewArchiver(store, nil)

	event := placedEvent()
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))

	// Redelivery of the same event id archives exactly once.
	assert.Len(t, store.orders, 1)
	assert.Len(t, store.items, 2)
}

func TestHandleOrderPlacedCacheShortCircuits(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	a := NewArchiver(store, cache)

	event := placedEvent()
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))
	assert.True(t, cache.keys[event.EventID])

	// A second delivery stops at the cache without touching the store.
	store.processed = make(map[string]bool)
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))
	assert.Len(t, store.orders, 1)
}

func TestHandleOrderPlacedSurvivesCacheOutage(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	cache.failed = true
	a := NewArchiver(store, cache)

	// Cache errors fall through to the database path.
	event := placedEvent()
	require.NoError(t, a.HandleOrderPlaced(context.Background(), event))
	assert.Len(t, store.orders, 1)
	assert.True(t, store.processed[event.EventID])
}
