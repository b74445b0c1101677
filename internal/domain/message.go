package domain

import "time"

// Message is an admin-to-user notification stored in the inbox.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MessageRepository interface {
	Create(message *Message) (*Message, error)
	GetByID(id int64) (*Message, error)
	ListAll() ([]Message, error)
	ListByReceiver(receiverID int64) ([]Message, error)

	// MarkRead flips is_read on the given ids, scoped to the receiver, and
	// returns how many rows changed.
	MarkRead(receiverID int64, ids []int64) (int64, error)
	Update(id int64, content, msgType string) (*Message, error)
	Delete(id int64) error
}

type MessageUseCase interface {
	SendMessage(actor Actor, receiverID int64, content, msgType string) (*Message, error)
	ListAllMessages(actor Actor) ([]Message, error)
	ListMyMessages(userID int64) ([]Message, error)
	GetMessage(actor Actor, id int64) (*Message, error)
	MarkMessagesRead(userID int64, ids []int64) (int64, error)
	UpdateMessage(actor Actor, id int64, content, msgType string) (*Message, error)
	DeleteMessage(actor Actor, id int64) error
}
