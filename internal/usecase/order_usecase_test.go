package usecase

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type orderFixture struct {
	orders   *fakeOrderRepo
	products *fakeProductRepo
	coupons  *fakeCouponRepo
	users    *fakeUserRepo
	carts    *fakeCarts
	mail     *recordingSender
	uc       domain.OrderUseCase
}

func newOrderFixture(products ...*domain.Product) *orderFixture {
	f := &orderFixture{
		orders:   newFakeOrderRepo(),
		products: newFakeProductRepo(products...),
		coupons:  newFakeCouponRepo(),
		users:    newFakeUserRepo(&domain.User{ID: 1, Username: "buyer", Phone: "0100", Email: "buyer@example.com"}),
		carts:    &fakeCarts{},
		mail:     &recordingSender{},
	}
	f.uc = NewOrderUseCase(f.orders, f.products, f.coupons, f.users, f.carts, f.mail, "ops@example.com", testLogger())
	return f
}

func shirt() *domain.Product {
	return &domain.Product{
		ID:     10,
		Title:  "Cotton Shirt",
		Price:  decimal.RequireFromString("19.99"),
		Images: []string{"shirt.jpg"},
	}
}

func mug() *domain.Product {
	return &domain.Product{
		ID:    11,
		Title: "Mug",
		Price: decimal.RequireFromString("5.00"),
	}
}

func TestCreateOrderSnapshotsProducts(t *testing.T) {
	f := newOrderFixture(shirt(), mug())

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{
			{ProductID: 10, Quantity: 3, Color: "blue", Size: "M"},
			{ProductID: 11, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatePending, order.State)
	assert.Equal(t, domain.PaymentCashOnDelivery, order.PaymentMethod)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("64.97")), "got %s", order.Total)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Cotton Shirt", order.Items[0].Name)
	assert.Equal(t, "shirt.jpg", order.Items[0].Image)
	assert.Equal(t, "blue", order.Items[0].Color)

	// The order lands in the user's order list and the cart is pruned on the
	// ordered line keys.
	assert.Equal(t, []int64{order.ID}, f.users.attachedOrders(1))
	assert.Equal(t, 1, f.carts.removeOrdered)
	assert.Contains(t, f.carts.prunedKeys, domain.LineKey{ProductID: 10, Color: "blue", Size: "M"})
}

func TestCreateOrderEmptyItemList(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newOrderFixture(shirt())

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{
			{ProductID: 10, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, f.orders.orders, "nothing may be persisted when validation fails")
	assert.Equal(t, 0, f.carts.removeOrdered)
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	f := newOrderFixture(shirt())

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := newOrderFixture(shirt())

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:         []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
		PaymentMethod: "Barter",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderAppliesPercentCoupon(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 20, Title: "TV", Price: decimal.NewFromInt(500)})
	f.coupons.Create(&domain.Coupon{
		Code:  "SAVE10",
		Type:  domain.DiscountPercent,
		Value: decimal.NewFromInt(10),
	})

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 20, Quantity: 1}},
		CouponCode: "save10",
	})
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(450)), "got %s", order.Total)

	used, err := f.coupons.HasUsed(1, 1)
	require.NoError(t, err)
	assert.True(t, used, "coupon must be marked used at checkout")
}

func TestCreateOrderFixedCouponFloorsAtZero(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 21, Title: "Sticker", Price: decimal.NewFromInt(15)})
	f.coupons.Create(&domain.Coupon{
		Code:  "FLAT20",
		Type:  domain.DiscountFixed,
		Value: decimal.NewFromInt(20),
	})

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 21, Quantity: 1}},
		CouponCode: "FLAT20",
	})
	require.NoError(t, err)
	assert.True(t, order.Total.IsZero(), "got %s", order.Total)
}

func TestCreateOrderCouponSecondRedemptionRejected(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 20, Title: "TV", Price: decimal.NewFromInt(500)})
	f.coupons.Create(&domain.Coupon{
		Code:  "SAVE10",
		Type:  domain.DiscountPercent,
		Value: decimal.NewFromInt(10),
	})

	in := domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 20, Quantity: 1}},
		CouponCode: "SAVE10",
	}
	_, err := f.uc.CreateOrder(1, in)
	require.NoError(t, err)

	_, err = f.uc.CreateOrder(1, in)
	assert.ErrorIs(t, err, domain.ErrCouponAlreadyUsed)
	assert.Len(t, f.orders.orders, 1, "second order must not be persisted")
}

func TestCreateOrderExpiredCoupon(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 20, Title: "TV", Price: decimal.NewFromInt(500)})
	expired := time.Now().Add(-24 * time.Hour)
	f.coupons.Create(&domain.Coupon{
		Code:      "OLD",
		Type:      domain.DiscountFixed,
		Value:     decimal.NewFromInt(5),
		ExpiresAt: &expired,
	})

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 20, Quantity: 1}},
		CouponCode: "OLD",
	})
	assert.ErrorIs(t, err, domain.ErrCouponExpired)
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderCouponBelowMinimum(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 21, Title: "Sticker", Price: decimal.NewFromInt(15)})
	f.coupons.Create(&domain.Coupon{
		Code:         "BIG",
		Type:         domain.DiscountPercent,
		Value:        decimal.NewFromInt(10),
		MinCartValue: decimal.NewFromInt(100),
	})

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 21, Quantity: 1}},
		CouponCode: "BIG",
	})
	assert.ErrorIs(t, err, domain.ErrBelowMinimumCartValue)

	used, _ := f.coupons.HasUsed(1, 1)
	assert.False(t, used, "rejected coupon must not be marked used")
}

func TestCreateOrderInvalidCouponCode(t *testing.T) {
	f := newOrderFixture(shirt())

	_, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
		CouponCode: "NOPE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
}

func TestCreateOrderSurvivesCartPruneFailure(t *testing.T) {
	f := newOrderFixture(shirt())
	f.carts.removeErr = assert.AnError

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err, "cart pruning is best effort")
	assert.NotZero(t, order.ID)
}

func TestCreateOrderSurvivesNotificationFailure(t *testing.T) {
	f := newOrderFixture(shirt())
	f.mail.err = assert.AnError

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newOrderFixture(shirt())
	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.uc.GetOrder(domain.Actor{ID: 2, Role: domain.RoleUser}, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.GetOrder(domain.Actor{ID: 99, Role: domain.RoleAdmin}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = f.uc.GetOrder(domain.Actor{ID: 1, Role: domain.RoleUser}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestUpdateShippingOwnerOnly(t *testing.T) {
	f := newOrderFixture(shirt())
	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	addr := domain.ShippingAddress{FullName: "New Name", City: "Cairo"}

	// Even an admin cannot edit someone else's shipping address.
	_, err = f.uc.UpdateShippingAddress(domain.Actor{ID: 2, Role: domain.RoleAdmin}, order.ID, addr)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.uc.UpdateShippingAddress(domain.Actor{ID: 1, Role: domain.RoleUser}, order.ID, addr)
	require.NoError(t, err)
	assert.Equal(t, "Cairo", updated.ShippingAddress.City)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(shirt())
	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin}

	_, err = f.uc.UpdateOrderStatus(domain.Actor{ID: 1, Role: domain.RoleUser}, order.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.UpdateOrderStatus(admin, order.ID, "flying")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	updated, err := f.uc.UpdateOrderStatus(admin, order.ID, "SHIPPED")
	require.NoError(t, err, "state names are case-insensitive")
	assert.Equal(t, domain.StateShipped, updated.State)

	// Transitions are unconditional: shipped back to pending is allowed.
	updated, err = f.uc.UpdateOrderStatus(admin, order.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, updated.State)
}

func TestDeleteOrderDetachesFromUser(t *testing.T) {
	f := newOrderFixture(shirt())
	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items: []domain.OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	err = f.uc.DeleteOrder(domain.Actor{ID: 1, Role: domain.RoleUser}, order.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = f.uc.DeleteOrder(domain.Actor{ID: 99, Role: domain.RoleAdmin}, order.ID)
	require.NoError(t, err)

	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.users.attachedOrders(1))
}

func TestPreviewCouponDoesNotMutate(t *testing.T) {
	f := newOrderFixture()
	f.carts.total = decimal.NewFromInt(500)
	f.coupons.Create(&domain.Coupon{
		Code:  "SAVE10",
		Type:  domain.DiscountPercent,
		Value: decimal.NewFromInt(10),
	})

	preview, err := f.uc.PreviewCoupon(1, "save10")
	require.NoError(t, err)
	assert.True(t, preview.Discount.Equal(decimal.NewFromInt(50)), "got %s", preview.Discount)
	assert.True(t, preview.TotalAfterDiscount.Equal(decimal.NewFromInt(450)), "got %s", preview.TotalAfterDiscount)

	used, _ := f.coupons.HasUsed(1, 1)
	assert.False(t, used, "preview must not consume the coupon")
	assert.Empty(t, f.orders.orders, "preview must not create an order")
}

func TestPreviewCouponEmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.carts.totalErr = domain.ErrCartEmpty

	_, err := f.uc.PreviewCoupon(1, "SAVE10")
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestPreviewCouponRequiresCode(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.PreviewCoupon(1, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemoveCouponRestoresTotal(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 20, Title: "TV", Price: decimal.NewFromInt(500)})
	f.coupons.Create(&domain.Coupon{
		Code:  "SAVE10",
		Type:  domain.DiscountPercent,
		Value: decimal.NewFromInt(10),
	})

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 20, Quantity: 1}},
		CouponCode: "SAVE10",
	})
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.NewFromInt(450)))

	owner := domain.Actor{ID: 1, Role: domain.RoleUser}

	_, err = f.uc.RemoveCoupon(domain.Actor{ID: 2, Role: domain.RoleUser}, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.uc.RemoveCoupon(owner, order.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.CouponCode)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(500)), "got %s", updated.Total)

	used, _ := f.coupons.HasUsed(1, 1)
	assert.False(t, used, "usage marker must be released")

	// The coupon is gone from the order now.
	_, err = f.uc.RemoveCoupon(owner, order.ID)
	assert.ErrorIs(t, err, domain.ErrNoCouponApplied)
}

func TestRemoveCouponOnlyWhilePending(t *testing.T) {
	f := newOrderFixture(&domain.Product{ID: 20, Title: "TV", Price: decimal.NewFromInt(500)})
	f.coupons.Create(&domain.Coupon{
		Code:  "SAVE10",
		Type:  domain.DiscountPercent,
		Value: decimal.NewFromInt(10),
	})

	order, err := f.uc.CreateOrder(1, domain.CreateOrderInput{
		Items:      []domain.OrderItemRequest{{ProductID: 20, Quantity: 1}},
		CouponCode: "SAVE10",
	})
	require.NoError(t, err)

	_, err = f.uc.UpdateOrderStatus(domain.Actor{ID: 99, Role: domain.RoleAdmin}, order.ID, "shipped")
	require.NoError(t, err)

	_, err = f.uc.RemoveCoupon(domain.Actor{ID: 1, Role: domain.RoleUser}, order.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
