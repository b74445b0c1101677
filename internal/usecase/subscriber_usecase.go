package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var _ domain.SubscriberUseCase = (*subscriberUseCase)(nil)

type subscriberUseCase struct {
	subscriberRepo domain.SubscriberRepository
	log            *logrus.Logger
}

func NewSubscriberUseCase(repo domain.SubscriberRepository, logger *logrus.Logger) domain.SubscriberUseCase {
	return &subscriberUseCase{subscriberRepo: repo, log: logger}
}

func (uc *subscriberUseCase) Subscribe(userID int64, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}

	if _, err := uc.subscriberRepo.GetByUserID(userID); err == nil {
		return nil, fmt.Errorf("%w: user already has a subscribed email", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrSubscriberNotFound) {
		return nil, err
	}
	if _, err := uc.subscriberRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already subscribed", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrSubscriberNotFound) {
		return nil, err
	}

	subscriber, err := uc.subscriberRepo.Create(&domain.Subscriber{UserID: userID, Email: email})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("User %d subscribed with email %s", userID, email)
	return subscriber, nil
}

func (uc *subscriberUseCase) ListSubscribers(actor domain.Actor) ([]domain.Subscriber, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.subscriberRepo.List()
}

func (uc *subscriberUseCase) DeleteSubscriber(actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.subscriberRepo.Delete(id)
}
