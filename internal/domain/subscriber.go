package domain

import "time"

type Subscriber struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscriberRepository interface {
	Create(subscriber *Subscriber) (*Subscriber, error)
	GetByUserID(userID int64) (*Subscriber, error)
	GetByEmail(email string) (*Subscriber, error)
	List() ([]Subscriber, error)
	Delete(id int64) error
}

type SubscriberUseCase interface {
	Subscribe(userID int64, email string) (*Subscriber, error)
	ListSubscribers(actor Actor) ([]Subscriber, error)
	DeleteSubscriber(actor Actor, id int64) error
}
