package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{db: db, log: logger}
}

const userColumns = `id, username, phone, email, password_hash, role,
	country, city, street, is_verified, verification_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, user *domain.User) error {
	var email, token sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Phone,
		&email,
		&user.PasswordHash,
		&user.Role,
		&user.Address.Country,
		&user.Address.City,
		&user.Address.Street,
		&user.IsVerified,
		&token,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	user.Email = email.String
	user.VerificationToken = token.String
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *postgresUserRepository) Create(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (username, phone, email, password_hash, role,
            country, city, street, is_verified, verification_token)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(query,
		user.Username,
		user.Phone,
		nullIfEmpty(user.Email),
		user.PasswordHash,
		user.Role,
		user.Address.Country,
		user.Address.City,
		user.Address.Street,
		user.IsVerified,
		nullIfEmpty(user.VerificationToken),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Duplicate user registration (phone %s): %v", user.Phone, err)
			return nil, fmt.Errorf("%w: phone or email already registered", domain.ErrAlreadyExists)
		}
		r.log.Errorf("Failed to insert user %s: %v", user.Phone, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	r.log.Infof("User created with ID %d", user.ID)
	return user, nil
}

func (r *postgresUserRepository) GetByID(id int64) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByPhone(phone string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *postgresUserRepository) GetByEmail(email string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresUserRepository) GetByVerificationToken(token string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
}

func (r *postgresUserRepository) getOne(query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := scanUser(r.db.QueryRow(query, arg), user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w", domain.ErrUserNotFound)
		}
		r.log.Errorf("Failed to get user: %v", err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) Update(user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET username = $1, phone = $2, password_hash = $3,
            country = $4, city = $5, street = $6,
            is_verified = $7, verification_token = $8, updated_at = NOW()
        WHERE id = $9
        RETURNING updated_at
    `
	err := r.db.QueryRow(query,
		user.Username,
		user.Phone,
		user.PasswordHash,
		user.Address.Country,
		user.Address.City,
		user.Address.Street,
		user.IsVerified,
		nullIfEmpty(user.VerificationToken),
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, user.ID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: phone already registered", domain.ErrAlreadyExists)
		}
		r.log.Errorf("Failed to update user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete user %d: %v", id, err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	return nil
}

func (r *postgresUserRepository) List() ([]domain.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		r.log.Errorf("Failed to list users: %v", err)
		return nil, fmt.Errorf("could not retrieve users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			r.log.Errorf("Failed to scan user row: %v", err)
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (r *postgresUserRepository) AttachOrder(userID, orderID int64) error {
	query := `
        INSERT INTO user_orders (user_id, order_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, order_id) DO NOTHING
    `
	if _, err := r.db.Exec(query, userID, orderID); err != nil {
		r.log.Errorf("Failed to attach order %d to user %d: %v", orderID, userID, err)
		return fmt.Errorf("could not attach order to user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) DetachOrder(userID, orderID int64) error {
	query := `DELETE FROM user_orders WHERE user_id = $1 AND order_id = $2`
	if _, err := r.db.Exec(query, userID, orderID); err != nil {
		r.log.Errorf("Failed to detach order %d from user %d: %v", orderID, userID, err)
		return fmt.Errorf("could not detach order from user: %w", err)
	}
	return nil
}
