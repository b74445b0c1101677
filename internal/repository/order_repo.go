package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{db: db, log: logger}
}

const orderColumns = `id, user_id, total, coupon_code, state, payment_method,
	ship_full_name, ship_phone, ship_city, ship_street, ship_notes,
	is_paid, paid_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, order *domain.Order) error {
	var couponCode sql.NullString
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Total,
		&couponCode,
		&order.State,
		&order.PaymentMethod,
		&order.ShippingAddress.FullName,
		&order.ShippingAddress.Phone,
		&order.ShippingAddress.City,
		&order.ShippingAddress.Street,
		&order.ShippingAddress.Notes,
		&order.IsPaid,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}
	order.CouponCode = couponCode.String
	return nil
}

func (r *postgresOrderRepository) Create(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback order insert: %v", rbErr)
			}
		}
	}()

	var couponCode sql.NullString
	if order.CouponCode != "" {
		couponCode = sql.NullString{String: order.CouponCode, Valid: true}
	}

	orderQuery := `
        INSERT INTO orders (user_id, total, coupon_code, state, payment_method,
            ship_full_name, ship_phone, ship_city, ship_street, ship_notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, state, is_paid, created_at, updated_at
    `
	err = tx.QueryRow(orderQuery,
		order.UserID,
		order.Total,
		couponCode,
		order.State,
		order.PaymentMethod,
		order.ShippingAddress.FullName,
		order.ShippingAddress.Phone,
		order.ShippingAddress.City,
		order.ShippingAddress.Street,
		order.ShippingAddress.Notes,
	).Scan(&order.ID, &order.State, &order.IsPaid, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert order for user %d: %v", order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, name, image, price, quantity, color, size)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.Exec(order.ID, item.ProductID, item.Name, item.Image, item.Price, item.Quantity, item.Color, item.Size)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product_id: %d) for order %d: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit order %d: %v", order.ID, err)
		return nil, fmt.Errorf("could not commit order: %w", err)
	}

	r.log.Infof("Order %d created successfully with %d items.", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) GetByID(id int64) (*domain.Order, error) {
	order := &domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	err := scanOrder(r.db.QueryRow(query, id), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found", id)
			return nil, fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
		}
		r.log.Errorf("Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems([]int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	itemsQuery := `
        SELECT order_id, product_id, name, image, price, quantity, color, size
        FROM order_items
        WHERE order_id = ANY($1::bigint[])
        ORDER BY order_id, id
    `
	rows, err := r.db.Query(itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query order items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Image, &item.Price, &item.Quantity, &item.Color, &item.Size); err != nil {
			r.log.Errorf("Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsMap, nil
}

func (r *postgresOrderRepository) ListByUser(userID int64) ([]domain.Order, error) {
	ordersQuery := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ordersQuery, userID)
	if err != nil {
		r.log.Errorf("Failed to list orders for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []int64
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			r.log.Errorf("Failed to scan order row for user ID %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemsMap, err := r.getOrderItems(orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Infof("Retrieved %d orders for user ID %d", len(orders), userID)
	return orders, nil
}

func (r *postgresOrderRepository) UpdateState(id int64, state domain.OrderState) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET state = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + orderColumns + `
    `
	return r.queryOneOrder(query, state, id)
}

func (r *postgresOrderRepository) UpdateShipping(id int64, addr domain.ShippingAddress) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET ship_full_name = $1, ship_phone = $2, ship_city = $3,
            ship_street = $4, ship_notes = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING ` + orderColumns + `
    `
	return r.queryOneOrder(query, addr.FullName, addr.Phone, addr.City, addr.Street, addr.Notes, id)
}

func (r *postgresOrderRepository) ClearCoupon(id int64, newTotal decimal.Decimal) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET coupon_code = NULL, total = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + orderColumns + `
    `
	return r.queryOneOrder(query, newTotal, id)
}

func (r *postgresOrderRepository) queryOneOrder(query string, args ...any) (*domain.Order, error) {
	order := &domain.Order{}
	err := scanOrder(r.db.QueryRow(query, args...), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w", domain.ErrOrderNotFound)
		}
		r.log.Errorf("Failed to update order: %v", err)
		return nil, fmt.Errorf("could not update order: %w", err)
	}

	itemsMap, err := r.getOrderItems([]int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsMap[order.ID]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return order, nil
}

func (r *postgresOrderRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete order %d: %v", id, err)
		return fmt.Errorf("could not delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
	}
	r.log.Infof("Order %d deleted", id)
	return nil
}
