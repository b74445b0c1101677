package usecase

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var _ domain.CouponUseCase = (*couponUseCase)(nil)

type couponUseCase struct {
	couponRepo domain.CouponRepository
	log        *logrus.Logger
}

func NewCouponUseCase(repo domain.CouponRepository, logger *logrus.Logger) domain.CouponUseCase {
	return &couponUseCase{couponRepo: repo, log: logger}
}

func (uc *couponUseCase) CreateCoupon(actor domain.Actor, coupon *domain.Coupon) (*domain.Coupon, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}

	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	if coupon.Code == "" {
		return nil, fmt.Errorf("%w: coupon code cannot be empty", domain.ErrValidation)
	}
	discountType, ok := domain.NormalizeDiscountType(string(coupon.Type))
	if !ok {
		return nil, fmt.Errorf("%w: discount type must be percent or fixed", domain.ErrValidation)
	}
	coupon.Type = discountType
	if coupon.Value.IsNegative() {
		return nil, fmt.Errorf("%w: discount value cannot be negative", domain.ErrValidation)
	}

	created, err := uc.couponRepo.Create(coupon)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Coupon %s created by admin %d", created.Code, actor.ID)
	return created, nil
}

func (uc *couponUseCase) ListCoupons(actor domain.Actor) ([]domain.Coupon, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.couponRepo.List()
}

func (uc *couponUseCase) DeleteCoupon(actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if err := uc.couponRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Infof("Coupon %d deleted by admin %d", id, actor.ID)
	return nil
}
