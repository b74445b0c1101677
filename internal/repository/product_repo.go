package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{db: db, log: logger}
}

const productColumns = `id, title, description, price, discount, discount_type,
	categories, sizes, colors, tags, images, brand, in_stock, stock_quantity,
	rating, num_reviews, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Discount,
		&p.DiscountType,
		pq.Array(&p.Categories),
		pq.Array(&p.Sizes),
		pq.Array(&p.Colors),
		pq.Array(&p.Tags),
		pq.Array(&p.Images),
		&p.Brand,
		&p.InStock,
		&p.StockQuantity,
		&p.Rating,
		&p.NumReviews,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresProductRepository) Create(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (title, description, price, discount, discount_type,
            categories, sizes, colors, tags, images, brand, in_stock,
            stock_quantity, rating, num_reviews, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(query,
		product.Title,
		product.Description,
		product.Price,
		product.Discount,
		product.DiscountType,
		pq.Array(product.Categories),
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		pq.Array(product.Tags),
		pq.Array(product.Images),
		product.Brand,
		product.InStock,
		product.StockQuantity,
		product.Rating,
		product.NumReviews,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert product %q: %v", product.Title, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product %q created with ID %d", product.Title, product.ID)
	return product, nil
}

func (r *postgresProductRepository) GetByID(id int64) (*domain.Product, error) {
	product := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := scanProduct(r.db.QueryRow(query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) List(filter domain.ProductFilter) (*domain.ProductPage, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("%s = ANY(categories)", arg(filter.Category)))
	}
	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = %s", arg(filter.Brand)))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= %s", arg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= %s", arg(*filter.MaxPrice)))
	}
	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %[1]s OR description ILIKE %[1]s OR brand ILIKE %[1]s)", pattern))
	}
	if filter.Discounted {
		conditions = append(conditions, "discount <> 0")
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		r.log.Errorf("Failed to count products: %v", err)
		return nil, fmt.Errorf("could not count products: %w", err)
	}

	listQuery := `SELECT ` + productColumns + ` FROM products WHERE ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %s OFFSET %s", arg(limit), arg((page-1)*limit))
	rows, err := r.db.Query(listQuery, args...)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	totalPages := (total + limit - 1) / limit
	return &domain.ProductPage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Products:   products,
	}, nil
}

func (r *postgresProductRepository) Update(product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET title = $1, description = $2, price = $3, discount = $4,
            discount_type = $5, categories = $6, sizes = $7, colors = $8,
            tags = $9, images = $10, brand = $11, in_stock = $12,
            stock_quantity = $13, rating = $14, num_reviews = $15,
            is_active = $16, updated_at = NOW()
        WHERE id = $17
        RETURNING updated_at
    `
	err := r.db.QueryRow(query,
		product.Title,
		product.Description,
		product.Price,
		product.Discount,
		product.DiscountType,
		pq.Array(product.Categories),
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		pq.Array(product.Tags),
		pq.Array(product.Images),
		product.Brand,
		product.InStock,
		product.StockQuantity,
		product.Rating,
		product.NumReviews,
		product.IsActive,
		product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, product.ID)
		}
		r.log.Errorf("Failed to update product %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete product %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}
	return nil
}
