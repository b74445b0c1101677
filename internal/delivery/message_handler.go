package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type MessageHandler struct {
	useCase domain.MessageUseCase
	log     *logrus.Logger
}

func NewMessageHandler(uc domain.MessageUseCase, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *MessageHandler) RegisterRoutes(authed gin.IRouter) {
	messages := authed.Group("/message-to-user")
	{
		messages.POST("", h.SendMessage)
		messages.GET("", h.ListAllMessages)
		messages.GET("/my", h.ListMyMessages)
		messages.PUT("/read", h.MarkRead)
		messages.GET("/:id", h.GetMessage)
		messages.PUT("/:id", h.UpdateMessage)
		messages.DELETE("/:id", h.DeleteMessage)
	}
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
	Type       string `json:"type"`
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for send message: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	message, err := h.useCase.SendMessage(actor, req.ReceiverID, req.Content, req.Type)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Message sent successfully", message)
}

func (h *MessageHandler) ListAllMessages(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	messages, err := h.useCase.ListAllMessages(actor)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) ListMyMessages(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	messages, err := h.useCase.ListMyMessages(actor.ID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid message ID format")
		return
	}

	message, err := h.useCase.GetMessage(actor, id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Message retrieved successfully", message)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for mark messages read (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	modified, err := h.useCase.MarkMessagesRead(actor.ID, req.IDs)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Messages marked as read", gin.H{"modified": modified})
}

func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid message ID format")
		return
	}

	var req struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for update message %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	message, err := h.useCase.UpdateMessage(actor, id, req.Content, req.Type)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Message updated successfully", message)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid message ID format")
		return
	}

	if err := h.useCase.DeleteMessage(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Message deleted successfully", nil)
}
