package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{db: db, log: logger}
}

func (r *postgresCartRepository) GetByUser(userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{}
	query := `SELECT id, user_id, total, created_at, updated_at FROM carts WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&cart.ID, &cart.UserID, &cart.Total, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrCartNotFound, userID)
		}
		r.log.Errorf("Failed to get cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	itemsQuery := `
        SELECT id, product_id, quantity, color, size
        FROM cart_items
        WHERE cart_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(itemsQuery, cart.ID)
	if err != nil {
		r.log.Errorf("Failed to query cart items for cart %d: %v", cart.ID, err)
		return nil, fmt.Errorf("could not retrieve cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Color, &item.Size); err != nil {
			r.log.Errorf("Failed to scan cart item row for cart %d: %v", cart.ID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

func (r *postgresCartRepository) CreateForUser(userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	query := `
        INSERT INTO carts (user_id, total)
        VALUES ($1, 0)
        ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
        RETURNING id, total, created_at, updated_at
    `
	err := r.db.QueryRow(query, userID).Scan(&cart.ID, &cart.Total, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to create cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not create cart: %w", err)
	}
	return cart, nil
}

func (r *postgresCartRepository) AddItem(cartID int64, item domain.CartItem) error {
	// Merge onto an existing line with the same (product, color, size) key.
	updateQuery := `
        UPDATE cart_items
        SET quantity = quantity + $1
        WHERE cart_id = $2 AND product_id = $3 AND color = $4 AND size = $5
    `
	result, err := r.db.Exec(updateQuery, item.Quantity, cartID, item.ProductID, item.Color, item.Size)
	if err != nil {
		r.log.Errorf("Failed to merge cart item (cart %d, product %d): %v", cartID, item.ProductID, err)
		return fmt.Errorf("could not update cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect cart update result: %w", err)
	}
	if affected > 0 {
		return r.touch(cartID)
	}

	insertQuery := `
        INSERT INTO cart_items (cart_id, product_id, quantity, color, size)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := r.db.Exec(insertQuery, cartID, item.ProductID, item.Quantity, item.Color, item.Size); err != nil {
		r.log.Errorf("Failed to insert cart item (cart %d, product %d): %v", cartID, item.ProductID, err)
		return fmt.Errorf("could not add cart item: %w", err)
	}
	return r.touch(cartID)
}

func (r *postgresCartRepository) SetItemQuantity(cartID int64, key domain.LineKey, quantity int) error {
	query := `
        UPDATE cart_items
        SET quantity = $1
        WHERE cart_id = $2 AND product_id = $3 AND color = $4 AND size = $5
    `
	result, err := r.db.Exec(query, quantity, cartID, key.ProductID, key.Color, key.Size)
	if err != nil {
		r.log.Errorf("Failed to set quantity for cart %d, product %d: %v", cartID, key.ProductID, err)
		return fmt.Errorf("could not update cart item quantity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect cart update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d not in cart", domain.ErrCartNotFound, key.ProductID)
	}
	return r.touch(cartID)
}

func (r *postgresCartRepository) RemoveItem(cartID int64, key domain.LineKey) error {
	query := `
        DELETE FROM cart_items
        WHERE cart_id = $1 AND product_id = $2 AND color = $3 AND size = $4
    `
	if _, err := r.db.Exec(query, cartID, key.ProductID, key.Color, key.Size); err != nil {
		r.log.Errorf("Failed to remove cart item (cart %d, product %d): %v", cartID, key.ProductID, err)
		return fmt.Errorf("could not remove cart item: %w", err)
	}
	return r.touch(cartID)
}

func (r *postgresCartRepository) RemoveMatching(cartID int64, keys []domain.LineKey) error {
	if len(keys) == 0 {
		return nil
	}
	query := `
        DELETE FROM cart_items
        WHERE cart_id = $1 AND product_id = $2 AND color = $3 AND size = $4
    `
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("could not prepare cart prune statement: %w", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.Exec(cartID, key.ProductID, key.Color, key.Size); err != nil {
			r.log.Errorf("Failed to prune cart line (cart %d, product %d): %v", cartID, key.ProductID, err)
			return fmt.Errorf("could not prune cart line: %w", err)
		}
	}
	return r.touch(cartID)
}

func (r *postgresCartRepository) Clear(cartID int64) error {
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.log.Errorf("Failed to clear cart %d: %v", cartID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}
	return r.SaveTotal(cartID, decimal.Zero)
}

func (r *postgresCartRepository) SaveTotal(cartID int64, total decimal.Decimal) error {
	query := `UPDATE carts SET total = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.Exec(query, total, cartID); err != nil {
		r.log.Errorf("Failed to save total for cart %d: %v", cartID, err)
		return fmt.Errorf("could not save cart total: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) touch(cartID int64) error {
	if _, err := r.db.Exec(`UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("could not touch cart: %w", err)
	}
	return nil
}
