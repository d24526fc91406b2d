package models

import "time"

// Product represents a catalog entry. Prices are integer cents. Catalog rows
// are read-only to the storefront; carts hold snapshots of them.
type Product struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Price     int64     `db:"price" json:"price"`
	SalePrice *int64    `db:"sale_price" json:"sale_price,omitempty"`
	OnSale    bool      `db:"on_sale" json:"on_sale"`
	Stock     *int      `db:"stock" json:"stock,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DefaultStockCap is the per-line quantity limit when a product does not
// declare stock.
const DefaultStockCap = 10

// EffectivePrice returns the sale price when the product is on sale and has
// one, the list price otherwise.
func (p *Product) EffectivePrice() int64 {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// StockCap returns the maximum quantity a single cart line may hold.
func (p *Product) StockCap() int {
	if p.Stock != nil && *p.Stock > 0 {
		return *p.Stock
	}
	return DefaultStockCap
}

// CartItem is one cart line: a product snapshot plus quantity. Quantity is
// always within [1, product stock cap].
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Shipping options
const (
	ShippingFree     = "free"
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

// ShippingCost returns the flat rate in cents for a shipping option. Unknown
// options cost the standard rate.
func ShippingCost(option string) int64 {
	switch option {
	case ShippingFree:
		return 0
	case ShippingExpress:
		return 999
	default:
		return 499
	}
}

// ValidShipping reports whether option is a known shipping option.
func ValidShipping(option string) bool {
	switch option {
	case ShippingFree, ShippingStandard, ShippingExpress:
		return true
	}
	return false
}

// CartSnapshot is a point-in-time copy of a session's cart with derived
// totals. Mutating a snapshot never affects the live cart.
type CartSnapshot struct {
	SessionID    string     `json:"session_id"`
	Items        []CartItem `json:"items"`
	Shipping     string     `json:"shipping"`
	TotalItems   int        `json:"total_items"`
	Subtotal     int64      `json:"subtotal"`
	ShippingCost int64      `json:"shipping_cost"`
	Total        int64      `json:"total"`
}

// CheckoutState tracks a session's position in the checkout flow.
type CheckoutState struct {
	IsCheckingOut bool   `json:"is_checking_out"`
	OrderPlaced   bool   `json:"order_placed"`
	OrderNumber   string `json:"order_number,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Toast types
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
	ToastWarning = "warning"
)

// Toast is a transient notification record.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds a session's saved contact details. All fields are strings;
// validation rules live in the profile package.
type Profile struct {
	SessionID string    `db:"session_id" json:"-"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Zip       string    `db:"zip" json:"zip"`
	Country   string    `db:"country" json:"country"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order is an archived placed order.
type Order struct {
	ID           int64     `db:"id" json:"id"`
	OrderNumber  string    `db:"order_number" json:"order_number"`
	SessionID    string    `db:"session_id" json:"session_id"`
	Subtotal     int64     `db:"subtotal" json:"subtotal"`
	Shipping     string    `db:"shipping" json:"shipping"`
	ShippingCost int64     `db:"shipping_cost" json:"shipping_cost"`
	Total        int64     `db:"total" json:"total"`
	PlacedAt     time.Time `db:"placed_at" json:"placed_at"`
}

// OrderItem is one archived order line.
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   int64  `db:"order_id" json:"order_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
