package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresSubscriberRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSubscriberRepository(db *sql.DB, logger *logrus.Logger) domain.SubscriberRepository {
	return &postgresSubscriberRepository{db: db, log: logger}
}

func (r *postgresSubscriberRepository) Create(subscriber *domain.Subscriber) (*domain.Subscriber, error) {
	query := `
        INSERT INTO subscribers (user_id, email)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(query, subscriber.UserID, subscriber.Email).Scan(&subscriber.ID, &subscriber.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: subscription", domain.ErrAlreadyExists)
		}
		r.log.Errorf("Failed to insert subscriber %s: %v", subscriber.Email, err)
		return nil, fmt.Errorf("could not create subscriber: %w", err)
	}
	return subscriber, nil
}

func (r *postgresSubscriberRepository) GetByUserID(userID int64) (*domain.Subscriber, error) {
	return r.getOne(`SELECT id, user_id, email, created_at FROM subscribers WHERE user_id = $1`, userID)
}

func (r *postgresSubscriberRepository) GetByEmail(email string) (*domain.Subscriber, error) {
	return r.getOne(`SELECT id, user_id, email, created_at FROM subscribers WHERE email = $1`, email)
}

func (r *postgresSubscriberRepository) getOne(query string, arg any) (*domain.Subscriber, error) {
	subscriber := &domain.Subscriber{}
	err := r.db.QueryRow(query, arg).Scan(&subscriber.ID, &subscriber.UserID, &subscriber.Email, &subscriber.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w", domain.ErrSubscriberNotFound)
		}
		r.log.Errorf("Failed to get subscriber: %v", err)
		return nil, fmt.Errorf("could not retrieve subscriber: %w", err)
	}
	return subscriber, nil
}

func (r *postgresSubscriberRepository) List() ([]domain.Subscriber, error) {
	rows, err := r.db.Query(`SELECT id, user_id, email, created_at FROM subscribers ORDER BY created_at DESC`)
	if err != nil {
		r.log.Errorf("Failed to list subscribers: %v", err)
		return nil, fmt.Errorf("could not retrieve subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.UserID, &s.Email, &s.CreatedAt); err != nil {
			r.log.Errorf("Failed to scan subscriber row: %v", err)
			return nil, fmt.Errorf("error scanning subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []domain.Subscriber{}
	}
	return subscribers, nil
}

func (r *postgresSubscriberRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete subscriber %d: %v", id, err)
		return fmt.Errorf("could not delete subscriber: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrSubscriberNotFound, id)
	}
	return nil
}
