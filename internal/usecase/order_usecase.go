package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/mailer"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	couponRepo  domain.CouponRepository
	userRepo    domain.UserRepository
	carts       domain.CartUseCase
	mail        mailer.EmailSender
	adminEmail  string
	log         *logrus.Logger
}

func NewOrderUseCase(
	orderRepo domain.OrderRepository,
	productRepo domain.ProductRepository,
	couponRepo domain.CouponRepository,
	userRepo domain.UserRepository,
	carts domain.CartUseCase,
	mail mailer.EmailSender,
	adminEmail string,
	logger *logrus.Logger,
) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		carts:       carts,
		mail:        mail,
		adminEmail:  adminEmail,
		log:         logger,
	}
}

// CreateOrder runs the checkout sequence: validate items, snapshot products,
// price, apply an optional coupon, persist, then best-effort cart pruning and
// notifications. Writes after the order insert are not atomic with it; partial
// failure is logged and tolerated.
func (uc *orderUseCase) CreateOrder(userID int64, in domain.CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		uc.log.Warnf("Checkout rejected for user %d: empty item list", userID)
		return nil, domain.ErrEmptyOrder
	}

	paymentMethod, ok := domain.NormalizePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, in.PaymentMethod)
	}

	// Pure validation pass: resolve every product before anything is written.
	snapshot := make([]domain.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("%w: item %d: invalid product ID", domain.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d (product %d): quantity must be positive", domain.ErrValidation, i, item.ProductID)
		}

		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				uc.log.Warnf("Checkout failed for user %d: product %d not found", userID, item.ProductID)
				return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, item.ProductID)
			}
			return nil, err
		}

		snapshot = append(snapshot, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Title,
			Image:     product.FirstImage(),
			Price:     product.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	total := domain.OrderTotal(snapshot)
	uc.log.Infof("Checkout for user %d: %d items, base total %s", userID, len(snapshot), total.StringFixed(2))

	order := &domain.Order{
		UserID:          userID,
		Items:           snapshot,
		Total:           total,
		State:           domain.StatePending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: in.ShippingAddress,
	}

	discount := decimal.Zero
	if in.CouponCode != "" {
		coupon, err := uc.validateCoupon(in.CouponCode, total, userID)
		if err != nil {
			uc.log.Warnf("Checkout aborted for user %d: coupon %s rejected: %v", userID, in.CouponCode, err)
			return nil, err
		}

		discount = coupon.DiscountFor(total)
		order.Total = total.Sub(discount).Round(2)
		order.CouponCode = coupon.Code

		if err := uc.couponRepo.MarkUsed(coupon.ID, userID); err != nil {
			uc.log.Warnf("Checkout aborted for user %d: could not mark coupon %s used: %v", userID, coupon.Code, err)
			return nil, err
		}
		uc.log.Infof("Coupon %s applied for user %d: discount %s, total %s",
			coupon.Code, userID, discount.StringFixed(2), order.Total.StringFixed(2))
	}

	created, err := uc.orderRepo.Create(order)
	if err != nil {
		uc.log.Errorf("Failed to persist order for user %d: %v", userID, err)
		return nil, err
	}

	if err := uc.userRepo.AttachOrder(userID, created.ID); err != nil {
		// The order exists; a missing membership row is recoverable.
		uc.log.Errorf("Order %d created but not attached to user %d: %v", created.ID, userID, err)
	}

	if err := uc.carts.RemoveOrdered(userID, created.Items); err != nil {
		uc.log.Warnf("Order %d created but cart pruning failed for user %d: %v", created.ID, userID, err)
	}

	uc.notifyOrderCreated(created, discount)

	uc.log.Infof("Order %d created successfully for user %d, total %s", created.ID, userID, created.Total.StringFixed(2))
	return created, nil
}

// validateCoupon resolves and validates a coupon against a base total and the
// acting user. Checks run in a fixed order: existence, expiry, minimum cart
// value, prior usage.
func (uc *orderUseCase) validateCoupon(code string, total decimal.Decimal, userID int64) (*domain.Coupon, error) {
	normalized := domain.NormalizeCouponCode(code)
	coupon, err := uc.couponRepo.GetByCode(normalized)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCoupon, normalized)
		}
		return nil, err
	}

	if coupon.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCouponExpired, coupon.Code)
	}
	if total.LessThan(coupon.MinCartValue) {
		return nil, fmt.Errorf("%w: coupon requires minimum value of %s EGP",
			domain.ErrBelowMinimumCartValue, coupon.MinCartValue.StringFixed(2))
	}

	used, err := uc.couponRepo.HasUsed(coupon.ID, userID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, fmt.Errorf("%w: %s", domain.ErrCouponAlreadyUsed, coupon.Code)
	}

	return coupon, nil
}

func (uc *orderUseCase) GetOrders(userID int64) ([]domain.Order, error) {
	return uc.orderRepo.ListByUser(userID)
}

func (uc *orderUseCase) GetOrder(actor domain.Actor, orderID int64) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID && !actor.IsAdmin() {
		uc.log.Warnf("User %d attempted to access order %d owned by user %d", actor.ID, orderID, order.UserID)
		return nil, fmt.Errorf("%w: you are not allowed to view this order", domain.ErrForbidden)
	}
	return order, nil
}

func (uc *orderUseCase) UpdateShippingAddress(actor domain.Actor, orderID int64, addr domain.ShippingAddress) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID {
		uc.log.Warnf("User %d attempted to edit shipping of order %d owned by user %d", actor.ID, orderID, order.UserID)
		return nil, fmt.Errorf("%w: you are not allowed to edit this order", domain.ErrForbidden)
	}

	updated, err := uc.orderRepo.UpdateShipping(orderID, addr)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Shipping address updated for order %d by user %d", orderID, actor.ID)
	return updated, nil
}

func (uc *orderUseCase) UpdateOrderStatus(actor domain.Actor, orderID int64, state string) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}

	newState, ok := domain.NormalizeState(state)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidState, state)
	}

	updated, err := uc.orderRepo.UpdateState(orderID, newState)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Order %d state updated to %s by admin %d", orderID, newState, actor.ID)
	uc.notifyStatusChanged(updated)
	return updated, nil
}

func (uc *orderUseCase) DeleteOrder(actor domain.Actor, orderID int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}

	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := uc.orderRepo.Delete(orderID); err != nil {
		return err
	}

	if err := uc.userRepo.DetachOrder(order.UserID, orderID); err != nil {
		uc.log.Errorf("Order %d deleted but not detached from user %d: %v", orderID, order.UserID, err)
	}

	uc.log.Infof("Order %d deleted by admin %d", orderID, actor.ID)
	return nil
}

// PreviewCoupon prices a coupon against the live cart total without writing
// anything: no usage marker, no cart mutation, no order.
func (uc *orderUseCase) PreviewCoupon(userID int64, couponCode string) (*domain.CouponPreview, error) {
	if couponCode == "" {
		return nil, fmt.Errorf("%w: coupon code is required", domain.ErrValidation)
	}

	total, err := uc.carts.CurrentTotal(userID)
	if err != nil {
		return nil, err
	}

	coupon, err := uc.validateCoupon(couponCode, total, userID)
	if err != nil {
		return nil, err
	}

	discount := coupon.DiscountFor(total)
	preview := &domain.CouponPreview{
		Discount:           discount,
		TotalAfterDiscount: total.Sub(discount).Round(2),
	}
	uc.log.Infof("Coupon %s previewed for user %d: discount %s, total after %s",
		coupon.Code, userID, discount.StringFixed(2), preview.TotalAfterDiscount.StringFixed(2))
	return preview, nil
}

// RemoveCoupon reverses a coupon on one specific order: drops the user's usage
// marker, clears the code, and restores the total from the order's own
// snapshot items. Only the owner may call it, and only while the order is
// still pending.
func (uc *orderUseCase) RemoveCoupon(actor domain.Actor, orderID int64) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID {
		return nil, fmt.Errorf("%w: you are not allowed to edit this order", domain.ErrForbidden)
	}
	if order.CouponCode == "" {
		return nil, domain.ErrNoCouponApplied
	}
	if order.State != domain.StatePending {
		return nil, fmt.Errorf("%w: coupon can only be removed from pending orders", domain.ErrValidation)
	}

	coupon, err := uc.couponRepo.GetByCode(order.CouponCode)
	if err != nil {
		if !errors.Is(err, domain.ErrCouponNotFound) {
			return nil, err
		}
		// The coupon definition is gone; still clear the order.
		uc.log.Warnf("Coupon %s on order %d no longer exists", order.CouponCode, orderID)
	} else {
		if err := uc.couponRepo.UnmarkUsed(coupon.ID, order.UserID); err != nil {
			return nil, err
		}
	}

	restored := domain.OrderTotal(order.Items)
	updated, err := uc.orderRepo.ClearCoupon(orderID, restored)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Coupon removed from order %d, total restored to %s", orderID, restored.StringFixed(2))
	return updated, nil
}

// Notifications are fire-and-forget: failures are logged and never surface to
// the caller.
func (uc *orderUseCase) notifyOrderCreated(order *domain.Order, discount decimal.Decimal) {
	go func() {
		user, err := uc.userRepo.GetByID(order.UserID)
		if err != nil {
			uc.log.Warnf("Order %d confirmation skipped: could not load user %d: %v", order.ID, order.UserID, err)
			return
		}
		if user.Email != "" {
			body, err := mailer.OrderConfirmationHTML(user, order, discount)
			if err != nil {
				uc.log.Warnf("Order %d confirmation render failed: %v", order.ID, err)
			} else if err := uc.mail.Send(user.Email, fmt.Sprintf("Order #%d confirmed", order.ID), body); err != nil {
				uc.log.Warnf("Order %d confirmation email failed: %v", order.ID, err)
			}
		}
		if uc.adminEmail != "" {
			if err := uc.mail.Send(uc.adminEmail, fmt.Sprintf("New order #%d", order.ID), mailer.OperatorOrderAlertHTML(order)); err != nil {
				uc.log.Warnf("Order %d operator alert failed: %v", order.ID, err)
			}
		}
	}()
}

func (uc *orderUseCase) notifyStatusChanged(order *domain.Order) {
	go func() {
		user, err := uc.userRepo.GetByID(order.UserID)
		if err != nil || user.Email == "" {
			return
		}
		body, err := mailer.OrderStatusHTML(user, order)
		if err != nil {
			uc.log.Warnf("Order %d status email render failed: %v", order.ID, err)
			return
		}
		if err := uc.mail.Send(user.Email, fmt.Sprintf("Order #%d is now %s", order.ID, order.State), body); err != nil {
			uc.log.Warnf("Order %d status email failed: %v", order.ID, err)
		}
	}()
}
