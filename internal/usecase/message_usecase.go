package usecase

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var _ domain.MessageUseCase = (*messageUseCase)(nil)

type messageUseCase struct {
	messageRepo domain.MessageRepository
	log         *logrus.Logger
}

func NewMessageUseCase(repo domain.MessageRepository, logger *logrus.Logger) domain.MessageUseCase {
	return &messageUseCase{messageRepo: repo, log: logger}
}

func (uc *messageUseCase) SendMessage(actor domain.Actor, receiverID int64, content, msgType string) (*domain.Message, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	if receiverID <= 0 {
		return nil, fmt.Errorf("%w: receiver is required", domain.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", domain.ErrValidation)
	}
	if msgType == "" {
		msgType = "general"
	}

	message, err := uc.messageRepo.Create(&domain.Message{
		SenderID:   actor.ID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       msgType,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Admin %d sent message %d to user %d", actor.ID, message.ID, receiverID)
	return message, nil
}

func (uc *messageUseCase) ListAllMessages(actor domain.Actor) ([]domain.Message, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.messageRepo.ListAll()
}

func (uc *messageUseCase) ListMyMessages(userID int64) ([]domain.Message, error) {
	return uc.messageRepo.ListByReceiver(userID)
}

func (uc *messageUseCase) GetMessage(actor domain.Actor, id int64) (*domain.Message, error) {
	message, err := uc.messageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && message.ReceiverID != actor.ID {
		return nil, fmt.Errorf("%w: not authorized to view this message", domain.ErrForbidden)
	}
	return message, nil
}

func (uc *messageUseCase) MarkMessagesRead(userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: message ids are required", domain.ErrValidation)
	}
	modified, err := uc.messageRepo.MarkRead(userID, ids)
	if err != nil {
		return 0, err
	}
	uc.log.Infof("User %d marked %d messages as read", userID, modified)
	return modified, nil
}

func (uc *messageUseCase) UpdateMessage(actor domain.Actor, id int64, content, msgType string) (*domain.Message, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.messageRepo.Update(id, content, msgType)
}

func (uc *messageUseCase) DeleteMessage(actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin privilege required", domain.ErrUnauthorized)
	}
	return uc.messageRepo.Delete(id)
}
