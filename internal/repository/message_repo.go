package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

type postgresMessageRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresMessageRepository(db *sql.DB, logger *logrus.Logger) domain.MessageRepository {
	return &postgresMessageRepository{db: db, log: logger}
}

const messageColumns = `id, sender_id, receiver_id, content, type, is_read, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }, m *domain.Message) error {
	return row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Type, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
}

func (r *postgresMessageRepository) Create(message *domain.Message) (*domain.Message, error) {
	query := `
        INSERT INTO messages (sender_id, receiver_id, content, type)
        VALUES ($1, $2, $3, $4)
        RETURNING id, is_read, created_at, updated_at
    `
	err := r.db.QueryRow(query, message.SenderID, message.ReceiverID, message.Content, message.Type).
		Scan(&message.ID, &message.IsRead, &message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert message to user %d: %v", message.ReceiverID, err)
		return nil, fmt.Errorf("could not create message: %w", err)
	}
	return message, nil
}

func (r *postgresMessageRepository) GetByID(id int64) (*domain.Message, error) {
	message := &domain.Message{}
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	err := scanMessage(r.db.QueryRow(query, id), message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrMessageNotFound, id)
		}
		r.log.Errorf("Failed to get message %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve message: %w", err)
	}
	return message, nil
}

func (r *postgresMessageRepository) ListAll() ([]domain.Message, error) {
	return r.list(`SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC`)
}

func (r *postgresMessageRepository) ListByReceiver(receiverID int64) ([]domain.Message, error) {
	return r.list(`SELECT `+messageColumns+` FROM messages WHERE receiver_id = $1 ORDER BY created_at DESC`, receiverID)
}

func (r *postgresMessageRepository) list(query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list messages: %v", err)
		return nil, fmt.Errorf("could not retrieve messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := scanMessage(rows, &m); err != nil {
			r.log.Errorf("Failed to scan message row: %v", err)
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (r *postgresMessageRepository) MarkRead(receiverID int64, ids []int64) (int64, error) {
	query := `
        UPDATE messages
        SET is_read = TRUE, updated_at = NOW()
        WHERE id = ANY($1::bigint[]) AND receiver_id = $2
    `
	result, err := r.db.Exec(query, pq.Array(ids), receiverID)
	if err != nil {
		r.log.Errorf("Failed to mark messages read for user %d: %v", receiverID, err)
		return 0, fmt.Errorf("could not mark messages read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not inspect update result: %w", err)
	}
	return affected, nil
}

func (r *postgresMessageRepository) Update(id int64, content, msgType string) (*domain.Message, error) {
	message := &domain.Message{}
	query := `
        UPDATE messages
        SET content = $1, type = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING ` + messageColumns + `
    `
	err := scanMessage(r.db.QueryRow(query, content, msgType, id), message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrMessageNotFound, id)
		}
		r.log.Errorf("Failed to update message %d: %v", id, err)
		return nil, fmt.Errorf("could not update message: %w", err)
	}
	return message, nil
}

func (r *postgresMessageRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete message %d: %v", id, err)
		return fmt.Errorf("could not delete message: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not inspect delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrMessageNotFound, id)
	}
	return nil
}
