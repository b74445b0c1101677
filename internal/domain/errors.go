package domain

import "errors"

// Sentinel errors for every failure kind the API distinguishes. Lower layers
// wrap these with context; delivery maps them to HTTP statuses with errors.Is.
var (
	ErrEmptyOrder            = errors.New("no items in order")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidCoupon         = errors.New("invalid coupon")
	ErrCouponExpired         = errors.New("coupon has expired")
	ErrBelowMinimumCartValue = errors.New("cart total is below the coupon minimum")
	ErrCouponAlreadyUsed     = errors.New("coupon already used")
	ErrNoCouponApplied       = errors.New("no coupon applied to order")
	ErrOrderNotFound         = errors.New("order not found")
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrUserNotFound          = errors.New("user not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrSubscriberNotFound    = errors.New("subscriber not found")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidState          = errors.New("invalid order state")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrAlreadyExists         = errors.New("already exists")
	ErrValidation            = errors.New("validation failed")
)
