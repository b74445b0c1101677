package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

func NormalizeDiscountType(s string) (DiscountType, bool) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(s))) {
	case DiscountPercent:
		return DiscountPercent, true
	case DiscountFixed:
		return DiscountFixed, true
	default:
		return "", false
	}
}

// NormalizeCouponCode upper-cases a code for case-insensitive matching. Codes
// are stored upper-cased.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Coupon struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Type         DiscountType    `json:"type"`
	Value        decimal.Decimal `json:"value"`
	MinCartValue decimal.Decimal `json:"min_cart_value"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Expired reports whether the coupon's expiry, if set, has passed. Expiry is
// only ever evaluated lazily at validation time.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// DiscountFor computes the discount against a base total, capped so the
// discounted total never goes negative.
func (c *Coupon) DiscountFor(base decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case DiscountPercent:
		discount = base.Mul(c.Value).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		discount = c.Value
	default:
		discount = decimal.Zero
	}
	if discount.GreaterThan(base) {
		discount = base
	}
	return discount.Round(2)
}

type CouponRepository interface {
	Create(coupon *Coupon) (*Coupon, error)

	// GetByCode matches on the already-normalized (upper-cased) code.
	GetByCode(code string) (*Coupon, error)
	List() ([]Coupon, error)
	Delete(id int64) error

	HasUsed(couponID, userID int64) (bool, error)
	MarkUsed(couponID, userID int64) error
	UnmarkUsed(couponID, userID int64) error
}

type CouponUseCase interface {
	CreateCoupon(actor Actor, coupon *Coupon) (*Coupon, error)
	ListCoupons(actor Actor) ([]Coupon, error)
	DeleteCoupon(actor Actor, id int64) error
}
