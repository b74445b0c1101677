package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Key returns the line identity used when matching cart lines against ordered
// items. Quantity is deliberately not part of the key.
func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Color: i.Color, Size: i.Size}
}

type LineKey struct {
	ProductID int64
	Color     string
	Size      string
}

// Cart is the per-user mutable item list. Total is a cache of the last
// recompute, never an input to checkout pricing.
type Cart struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartRepository interface {
	GetByUser(userID int64) (*Cart, error)
	CreateForUser(userID int64) (*Cart, error)
	AddItem(cartID int64, item CartItem) error
	SetItemQuantity(cartID int64, key LineKey, quantity int) error
	RemoveItem(cartID int64, key LineKey) error
	RemoveMatching(cartID int64, keys []LineKey) error
	Clear(cartID int64) error
	SaveTotal(cartID int64, total decimal.Decimal) error
}

type CartUseCase interface {
	GetCart(userID int64) (*Cart, error)
	AddItem(userID int64, productID int64, quantity int, color, size string) (*Cart, error)
	UpdateItemQuantity(userID int64, key LineKey, quantity int) (*Cart, error)
	RemoveItem(userID int64, key LineKey) (*Cart, error)
	ClearCart(userID int64) error

	// RecomputeTotal re-prices the cart from current product prices and
	// persists the cached total. Items whose product no longer resolves
	// contribute zero and stay in the cart.
	RecomputeTotal(userID int64) (decimal.Decimal, error)

	// CurrentTotal re-prices the cart without persisting anything. Returns
	// ErrCartEmpty when the cart is missing or has no items.
	CurrentTotal(userID int64) (decimal.Decimal, error)

	// RemoveOrdered prunes every cart line whose (product, color, size)
	// matches one of the just-ordered items, then recomputes the total.
	RemoveOrdered(userID int64, items []OrderItem) error
}
