package usecase

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) GetCart(userID int64) (*domain.Cart, error) {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return uc.cartRepo.CreateForUser(userID)
		}
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) AddItem(userID, productID int64, quantity int, color, size string) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if _, err := uc.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	cart, err := uc.GetCart(userID)
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{ProductID: productID, Quantity: quantity, Color: color, Size: size}
	if err := uc.cartRepo.AddItem(cart.ID, item); err != nil {
		return nil, err
	}
	uc.log.Infof("User %d added product %d (qty %d) to cart %d", userID, productID, quantity, cart.ID)

	if _, err := uc.RecomputeTotal(userID); err != nil {
		return nil, err
	}
	return uc.cartRepo.GetByUser(userID)
}

func (uc *cartUseCase) UpdateItemQuantity(userID int64, key domain.LineKey, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.SetItemQuantity(cart.ID, key, quantity); err != nil {
		return nil, err
	}

	if _, err := uc.RecomputeTotal(userID); err != nil {
		return nil, err
	}
	return uc.cartRepo.GetByUser(userID)
}

func (uc *cartUseCase) RemoveItem(userID int64, key domain.LineKey) (*domain.Cart, error) {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.RemoveItem(cart.ID, key); err != nil {
		return nil, err
	}

	if _, err := uc.RecomputeTotal(userID); err != nil {
		return nil, err
	}
	return uc.cartRepo.GetByUser(userID)
}

func (uc *cartUseCase) ClearCart(userID int64) error {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	return uc.cartRepo.Clear(cart.ID)
}

// RecomputeTotal is the only writer of the cached cart total. Items whose
// product no longer resolves contribute zero and are left in the cart.
func (uc *cartUseCase) RecomputeTotal(userID int64) (decimal.Decimal, error) {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := uc.priceItems(cart.Items)
	if err != nil {
		return decimal.Zero, err
	}

	if err := uc.cartRepo.SaveTotal(cart.ID, total); err != nil {
		return decimal.Zero, err
	}
	uc.log.Debugf("Cart %d total recomputed: %s", cart.ID, total.StringFixed(2))
	return total, nil
}

func (uc *cartUseCase) CurrentTotal(userID int64) (decimal.Decimal, error) {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return decimal.Zero, domain.ErrCartEmpty
		}
		return decimal.Zero, err
	}
	if len(cart.Items) == 0 {
		return decimal.Zero, domain.ErrCartEmpty
	}
	return uc.priceItems(cart.Items)
}

func (uc *cartUseCase) priceItems(items []domain.CartItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				uc.log.Warnf("Cart item references missing product %d, pricing as zero", item.ProductID)
				continue
			}
			return decimal.Zero, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2), nil
}

// RemoveOrdered prunes cart lines matching the ordered (product, color, size)
// triples. Quantity is not part of the match, so a partially-ordered line is
// removed whole.
func (uc *cartUseCase) RemoveOrdered(userID int64, items []domain.OrderItem) error {
	cart, err := uc.cartRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}

	keys := make([]domain.LineKey, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	if err := uc.cartRepo.RemoveMatching(cart.ID, keys); err != nil {
		return err
	}

	_, err = uc.RecomputeTotal(userID)
	return err
}
