package usecase

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{productRepo: repo, log: logger}
}

func (uc *productUseCase) CreateProduct(actor domain.Actor, product *domain.Product) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if err := normalizeProduct(product); err != nil {
		return nil, err
	}

	created, err := uc.productRepo.Create(product)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Product %q created by admin %d", created.Title, actor.ID)
	return created, nil
}

func (uc *productUseCase) GetProduct(id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", domain.ErrValidation)
	}
	return uc.productRepo.GetByID(id)
}

func (uc *productUseCase) ListProducts(filter domain.ProductFilter) (*domain.ProductPage, error) {
	return uc.productRepo.List(filter)
}

func (uc *productUseCase) UpdateProduct(actor domain.Actor, product *domain.Product) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if product.ID <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", domain.ErrValidation)
	}
	if err := normalizeProduct(product); err != nil {
		return nil, err
	}

	updated, err := uc.productRepo.Update(product)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Product %d updated by admin %d", updated.ID, actor.ID)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if err := uc.productRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Infof("Product %d deleted by admin %d", id, actor.ID)
	return nil
}

func normalizeProduct(product *domain.Product) error {
	product.Title = strings.TrimSpace(product.Title)
	if product.Title == "" {
		return fmt.Errorf("%w: product title cannot be empty", domain.ErrValidation)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if product.Brand == "" {
		product.Brand = "Generic"
	}
	if product.DiscountType != "percentage" {
		product.DiscountType = "fixed"
	}
	return nil
}
