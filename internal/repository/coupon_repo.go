package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresCouponRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCouponRepository(db *sql.DB, logger *logrus.Logger) domain.CouponRepository {
	return &postgresCouponRepository{db: db, log: logger}
}

func (r *postgresCouponRepository) Create(coupon *domain.Coupon) (*domain.Coupon, error) {
	query := `
        INSERT INTO coupons (code, discount_type, value, min_cart_value, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(query,
		coupon.Code,
		coupon.Type,
		coupon.Value,
		coupon.MinCartValue,
		coupon.ExpiresAt,
	).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Coupon code %s already exists", coupon.Code)
			return nil, fmt.Errorf("%w: coupon code %s", domain.ErrAlreadyExists, coupon.Code)
		}
		r.log.Errorf("Failed to insert coupon %s: %v", coupon.Code, err)
		return nil, fmt.Errorf("could not create coupon: %w", err)
	}
	r.log.Infof("Coupon %s created with ID %d", coupon.Code, coupon.ID)
	return coupon, nil
}

func (r *postgresCouponRepository) GetByCode(code string) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}
	query := `
        SELECT id, code, discount_type, value, min_cart_value, expires_at, created_at
        FROM coupons
        WHERE code = $1
    `
	err := r.db.QueryRow(query, code).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Value,
		&coupon.MinCartValue,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: code %s", domain.ErrCouponNotFound, code)
		}
		r.log.Errorf("Failed to get coupon by code %s: %v", code, err)
		return nil, fmt.Errorf("could not retrieve coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresCouponRepository) List() ([]domain.Coupon, error) {
	query := `
        SELECT id, code, discount_type, value, min_cart_value, expires_at, created_at
        FROM coupons
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list coupons: %v", err)
		return nil, fmt.Errorf("could not retrieve coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.MinCartValue, &c.ExpiresAt, &c.CreatedAt); err != nil {
			r.log.Errorf("Failed to scan coupon row: %v", err)
			return nil, fmt.Errorf("error scanning coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return coupons, nil
}

func (r *postgresCouponRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete coupon %d: %v", id, err)
		return fmt.Errorf("could not delete coupon: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrCouponNotFound, id)
	}
	return nil
}

func (r *postgresCouponRepository) HasUsed(couponID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2)`
	err := r.db.QueryRow(query, couponID, userID).Scan(&exists)
	if err != nil {
		r.log.Errorf("Failed to check coupon usage (coupon %d, user %d): %v", couponID, userID, err)
		return false, fmt.Errorf("could not check coupon usage: %w", err)
	}
	return exists, nil
}

func (r *postgresCouponRepository) MarkUsed(couponID, userID int64) error {
	query := `INSERT INTO coupon_usages (coupon_id, user_id) VALUES ($1, $2)`
	_, err := r.db.Exec(query, couponID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%w: coupon %d, user %d", domain.ErrCouponAlreadyUsed, couponID, userID)
		}
		r.log.Errorf("Failed to mark coupon %d used by user %d: %v", couponID, userID, err)
		return fmt.Errorf("could not mark coupon used: %w", err)
	}
	r.log.Infof("Coupon %d marked used by user %d", couponID, userID)
	return nil
}

func (r *postgresCouponRepository) UnmarkUsed(couponID, userID int64) error {
	query := `DELETE FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`
	_, err := r.db.Exec(query, couponID, userID)
	if err != nil {
		r.log.Errorf("Failed to unmark coupon %d usage for user %d: %v", couponID, userID, err)
		return fmt.Errorf("could not remove coupon usage: %w", err)
	}
	return nil
}
