package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountType  string          `json:"discount_type"`
	Categories    []string        `json:"categories"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	Tags          []string        `json:"tags"`
	Images        []string        `json:"images"`
	Brand         string          `json:"brand"`
	InStock       bool            `json:"in_stock"`
	StockQuantity int             `json:"stock_quantity"`
	Rating        decimal.Decimal `json:"rating"`
	NumReviews    int             `json:"num_reviews"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FirstImage is what order snapshots capture.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductFilter struct {
	Category   string
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Query      string
	Discounted bool
	Page       int
	Limit      int
}

type ProductPage struct {
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Products   []Product `json:"products"`
}

type ProductRepository interface {
	Create(product *Product) (*Product, error)
	GetByID(id int64) (*Product, error)
	List(filter ProductFilter) (*ProductPage, error)
	Update(product *Product) (*Product, error)
	Delete(id int64) error
}

type ProductUseCase interface {
	CreateProduct(actor Actor, product *Product) (*Product, error)
	GetProduct(id int64) (*Product, error)
	ListProducts(filter ProductFilter) (*ProductPage, error)
	UpdateProduct(actor Actor, product *Product) (*Product, error)
	DeleteProduct(actor Actor, id int64) error
}
