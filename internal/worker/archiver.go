package worker

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Processed-event keys in Redis outlive any plausible redelivery window.
const idempotencyTTL = 24 * time.Hour

// ArchiveStore is the slice of the database store the archiver writes to.
type ArchiveStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
}

// IdempotencyCache short-circuits redelivered events before they hit the
// database. Implemented by redisclient.Client.
type IdempotencyCache interface {
	CheckIdempotencyKey(ctx context.Context, key string) (bool, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Archiver persists placed orders from events. Events are applied at most
// once: Redis idempotency keys are the fast path, the processed_events table
// the authority.
type Archiver struct {
	store  ArchiveStore
	cache  IdempotencyCache
	logger *zap.Logger
}

// NewArchiver creates an order archiver. cache may be nil, which skips the
// fast path.
func NewArchiver(store ArchiveStore, cache IdempotencyCache) *Archiver {
	return &Archiver{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// HandleOrderPlaced archives one OrderPlaced event.
func (a *Archiver) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "worker.Archiver.HandleOrderPlaced")
	defer span.End()

	if a.cache != nil {
		seen, err := a.cache.CheckIdempotencyKey(ctx, event.EventID)
		if err != nil {
			a.logger.Warn("Idempotency cache check failed, falling back to DB",
				zap.String("event_id", event.EventID),
				zap.Error(err))
		} else if seen {
			a.logger.Info("Event already processed (cache)",
				zap.String("event_id", event.EventID))
			return nil
		}
	}

	processed, err := a.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		a.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order := &models.Order{
		OrderNumber:  event.OrderNumber,
		SessionID:    event.SessionID,
		Subtotal:     event.Subtotal,
		Shipping:     event.Shipping,
		ShippingCost: event.ShippingCost,
		Total:        event.Total,
		PlacedAt:     event.Timestamp,
	}

	if err := a.store.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}

	for _, item := range event.Items {
		orderItem := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if err := a.store.CreateOrderItem(ctx, orderItem); err != nil {
			return fmt.Errorf("failed to archive order item: %w", err)
		}
	}

	util.OrdersArchivedTotal.Inc()

	if err := a.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		a.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	if a.cache != nil {
		if err := a.cache.SetIdempotencyKey(ctx, event.EventID, event.EventType, idempotencyTTL); err != nil {
			a.logger.Warn("Failed to set idempotency key", zap.Error(err))
		}
	}

	a.logger.Info("Order archived",
		zap.String("order_number", event.OrderNumber),
		zap.Int("items", len(event.Items)))
	return nil
}
