package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrEmptyOrder, http.StatusBadRequest},
		{domain.ErrInvalidCoupon, http.StatusBadRequest},
		{domain.ErrCouponExpired, http.StatusBadRequest},
		{domain.ErrBelowMinimumCartValue, http.StatusBadRequest},
		{domain.ErrNoCouponApplied, http.StatusBadRequest},
		{domain.ErrCartEmpty, http.StatusBadRequest},
		{domain.ErrInvalidState, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrCouponNotFound, http.StatusNotFound},
		{domain.ErrCouponAlreadyUsed, http.StatusConflict},
		{domain.ErrAlreadyExists, http.StatusConflict},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrEmailNotVerified, http.StatusUnauthorized},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapErrorToStatus(tc.err), "error %v", tc.err)
	}
}

func TestMapErrorToStatusUnwrapsContext(t *testing.T) {
	wrapped := fmt.Errorf("%w: coupon requires minimum value of 100.00 EGP", domain.ErrBelowMinimumCartValue)
	assert.Equal(t, http.StatusBadRequest, mapErrorToStatus(wrapped))

	doubly := fmt.Errorf("checkout: %w", wrapped)
	assert.Equal(t, http.StatusBadRequest, mapErrorToStatus(doubly))
}
