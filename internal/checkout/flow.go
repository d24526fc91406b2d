package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/timers"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart rejects checkout on an empty cart. No state transition
	// occurs.
	ErrEmptyCart = errors.New("Cart is empty")

	// ErrCheckoutInFlight rejects a checkout while a prior one is still
	// settling for the same session.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrItemsUnavailable rejects a checkout when a cart line's product
	// has left the catalog since it was added.
	ErrItemsUnavailable = errors.New("some items are no longer available")
)

// ProductLookup re-resolves cart lines against the catalog. Implemented by
// store.Store.
type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// Flow drives each session through Idle -> CheckingOut -> Confirmed. The
// settlement delay stands in for the payment provider round trip; it runs on
// the shared timer registry keyed by session, so at most one settlement can
// ever be pending per session.
type Flow struct {
	mu        sync.Mutex
	states    map[string]*models.CheckoutState
	carts     *cart.Manager
	registry  *timers.Registry
	publisher *broker.EventPublisher
	products  ProductLookup
	delay     time.Duration
	logger    *zap.Logger

	// onConfirmed, when set, runs after each confirmed order. The API
	// layer uses it to raise a success toast.
	onConfirmed func(sessionID string, orderNumber string)
}

// NewFlow creates a checkout flow. publisher may be nil, which disables
// event publishing; products may be nil, which disables line re-validation.
func NewFlow(carts *cart.Manager, registry *timers.Registry, publisher *broker.EventPublisher, products ProductLookup, delay time.Duration) *Flow {
	return &Flow{
		states:    make(map[string]*models.CheckoutState),
		carts:     carts,
		registry:  registry,
		publisher: publisher,
		products:  products,
		delay:     delay,
		logger:    util.GetLogger(),
	}
}

// OnConfirmed registers a callback invoked after each confirmed order.
func (f *Flow) OnConfirmed(fn func(sessionID, orderNumber string)) {
	f.onConfirmed = fn
}

// Begin starts a checkout for the session. It fails fast with ErrEmptyCart
// or ErrCheckoutInFlight; otherwise the session transitions to CheckingOut
// and settlement is scheduled after the configured delay.
func (f *Flow) Begin(ctx context.Context, sessionID string) error {
	ctx, span := util.StartSpan(ctx, "checkout.Flow.Begin")
	defer span.End()

	util.CheckoutAttemptsTotal.Inc()

	snap := f.carts.Snapshot(ctx, sessionID)
	if snap.TotalItems == 0 {
		util.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		return ErrEmptyCart
	}

	if err := f.validateLines(ctx, &snap); err != nil {
		return err
	}

	f.mu.Lock()
	state := f.stateFor(sessionID)
	if state.IsCheckingOut {
		f.mu.Unlock()
		util.CheckoutRejectedTotal.WithLabelValues("in_flight").Inc()
		return ErrCheckoutInFlight
	}
	*state = models.CheckoutState{IsCheckingOut: true}
	f.mu.Unlock()

	start := time.Now()
	f.registry.Schedule("checkout:"+sessionID, f.delay, func() {
		f.settle(sessionID, start)
	})

	f.logger.Info("Checkout started",
		zap.String("session_id", sessionID),
		zap.Duration("delay", f.delay))
	return nil
}

// validateLines re-resolves the cart's products against the catalog so a
// line whose product vanished since it was added cannot check out.
func (f *Flow) validateLines(ctx context.Context, snap *models.CartSnapshot) error {
	if f.products == nil {
		return nil
	}

	ids := make([]int64, len(snap.Items))
	for i := range snap.Items {
		ids[i] = snap.Items[i].Product.ID
	}

	found, err := f.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate cart items: %w", err)
	}
	if len(found) != len(ids) {
		util.CheckoutRejectedTotal.WithLabelValues("items_unavailable").Inc()
		return ErrItemsUnavailable
	}
	return nil
}

// settle completes a checkout: generate the order number, drain the cart,
// transition to Confirmed, and publish the OrderPlaced event. Runs on the
// timer goroutine.
func (f *Flow) settle(sessionID string, start time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderNumber := NewOrderNumber(time.Now())
	snap := f.carts.Drain(ctx, sessionID)

	// The cart may have been emptied during the settlement delay; a
	// zero-item order must not confirm.
	if snap.TotalItems == 0 {
		f.mu.Lock()
		*f.stateFor(sessionID) = models.CheckoutState{Error: ErrEmptyCart.Error()}
		f.mu.Unlock()

		util.CheckoutRejectedTotal.WithLabelValues("emptied_in_flight").Inc()
		f.logger.Warn("Checkout abandoned, cart emptied during settlement",
			zap.String("session_id", sessionID))
		return
	}

	f.mu.Lock()
	*f.stateFor(sessionID) = models.CheckoutState{
		OrderPlaced: true,
		OrderNumber: orderNumber,
	}
	f.mu.Unlock()

	util.CheckoutConfirmedTotal.Inc()
	util.CheckoutSettleLatency.Observe(time.Since(start).Seconds())

	f.logger.Info("Order placed",
		zap.String("session_id", sessionID),
		zap.String("order_number", orderNumber),
		zap.Int64("total", snap.Total))

	if f.publisher != nil {
		event := placedEvent(orderNumber, &snap)
		if err := f.publisher.PublishOrderPlaced(ctx, event); err != nil {
			f.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
		}
	}

	if f.onConfirmed != nil {
		f.onConfirmed(sessionID, orderNumber)
	}
}

// State returns a copy of the session's checkout state.
func (f *Flow) State(sessionID string) models.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.stateFor(sessionID)
}

// Reset returns the session to Idle, clearing the placed order and any
// error. Rejected while a checkout is settling.
func (f *Flow) Reset(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.stateFor(sessionID)
	if state.IsCheckingOut {
		return ErrCheckoutInFlight
	}
	*state = models.CheckoutState{}
	return nil
}

// stateFor returns the live state for a session. Callers must hold the lock.
func (f *Flow) stateFor(sessionID string) *models.CheckoutState {
	state, ok := f.states[sessionID]
	if !ok {
		state = &models.CheckoutState{}
		f.states[sessionID] = state
	}
	return state
}

// NewOrderNumber builds an order identifier of the form ORD-YYYYMMDD-XXXXXX.
// The suffix comes from a UUID, uppercased, so it stays within [A-Z0-9].
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

func placedEvent(orderNumber string, snap *models.CartSnapshot) *models.OrderPlacedEvent {
	items := make([]models.OrderItemData, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, models.OrderItemData{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.EffectivePrice(),
		})
	}

	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderNumber:  orderNumber,
		SessionID:    snap.SessionID,
		Subtotal:     snap.Subtotal,
		Shipping:     snap.Shipping,
		ShippingCost: snap.ShippingCost,
		Total:        snap.Total,
		Items:        items,
	}
}
