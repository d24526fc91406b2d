package models

import "time"

// Event types
const (
	EventTypeOrderPlaced = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published when a checkout settles.
type OrderPlacedEvent struct {
	BaseEvent
	OrderNumber  string          `json:"order_number"`
	SessionID    string          `json:"session_id"`
	Subtotal     int64           `json:"subtotal"`
	Shipping     string          `json:"shipping"`
	ShippingCost int64           `json:"shipping_cost"`
	Total        int64           `json:"total"`
	Items        []OrderItemData `json:"items"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
