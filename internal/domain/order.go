package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderState string

const (
	StatePending    OrderState = "pending"
	StateProcessing OrderState = "processing"
	StateShipped    OrderState = "shipped"
	StateDelivered  OrderState = "delivered"
	StateCancelled  OrderState = "cancelled"
)

// NormalizeState lower-cases the input and reports whether it names one of the
// five order states. Transitions themselves are unconditional.
func NormalizeState(s string) (OrderState, bool) {
	state := OrderState(strings.ToLower(strings.TrimSpace(s)))
	switch state {
	case StatePending, StateProcessing, StateShipped, StateDelivered, StateCancelled:
		return state, true
	default:
		return "", false
	}
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
	PaymentCard           PaymentMethod = "Card"
	PaymentPayPal         PaymentMethod = "PayPal"
)

func NormalizePaymentMethod(s string) (PaymentMethod, bool) {
	if strings.TrimSpace(s) == "" {
		return PaymentCashOnDelivery, true
	}
	switch PaymentMethod(s) {
	case PaymentCashOnDelivery, PaymentCard, PaymentPayPal:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Street   string `json:"street"`
	Notes    string `json:"notes,omitempty"`
}

// OrderItem is a snapshot of a product at checkout time. It never changes
// after the order is created, even if the product does.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
}

func (i OrderItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Color: i.Color, Size: i.Size}
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	State           OrderState      `json:"state"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderTotal sums price times quantity over snapshot items, rounded to two
// decimal places.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

type OrderItemRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

type CreateOrderInput struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
	CouponCode      string             `json:"couponCode,omitempty"`
}

type CouponPreview struct {
	Discount           decimal.Decimal `json:"discount"`
	TotalAfterDiscount decimal.Decimal `json:"totalAfterDiscount"`
}

type OrderRepository interface {
	Create(order *Order) (*Order, error)
	GetByID(id int64) (*Order, error)
	ListByUser(userID int64) ([]Order, error)
	UpdateState(id int64, state OrderState) (*Order, error)
	UpdateShipping(id int64, addr ShippingAddress) (*Order, error)
	ClearCoupon(id int64, newTotal decimal.Decimal) (*Order, error)
	Delete(id int64) error
}

type OrderUseCase interface {
	CreateOrder(userID int64, in CreateOrderInput) (*Order, error)
	GetOrders(userID int64) ([]Order, error)
	GetOrder(actor Actor, orderID int64) (*Order, error)
	UpdateShippingAddress(actor Actor, orderID int64, addr ShippingAddress) (*Order, error)
	UpdateOrderStatus(actor Actor, orderID int64, state string) (*Order, error)
	DeleteOrder(actor Actor, orderID int64) error
	PreviewCoupon(userID int64, couponCode string) (*CouponPreview, error)
	RemoveCoupon(actor Actor, orderID int64) (*Order, error)
}
