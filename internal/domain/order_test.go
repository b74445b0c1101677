package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	cases := []struct {
		in    string
		want  OrderState
		valid bool
	}{
		{"pending", StatePending, true},
		{"Processing", StateProcessing, true},
		{"SHIPPED", StateShipped, true},
		{"  delivered ", StateDelivered, true},
		{"cancelled", StateCancelled, true},
		{"canceled", "", false},
		{"done", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeState(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	got, ok := NormalizePaymentMethod("")
	assert.True(t, ok)
	assert.Equal(t, PaymentCashOnDelivery, got)

	got, ok = NormalizePaymentMethod("Card")
	assert.True(t, ok)
	assert.Equal(t, PaymentCard, got)

	_, ok = NormalizePaymentMethod("Bitcoin")
	assert.False(t, ok)
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Price: decimal.RequireFromString("19.99"), Quantity: 3},
		{Price: decimal.RequireFromString("0.335"), Quantity: 2},
	}
	// 59.97 + 0.67 = 60.64
	assert.True(t, OrderTotal(items).Equal(decimal.RequireFromString("60.64")),
		"got %s", OrderTotal(items))
}

func TestOrderTotalEmpty(t *testing.T) {
	assert.True(t, OrderTotal(nil).IsZero())
}
