package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type SubscriberHandler struct {
	useCase domain.SubscriberUseCase
	log     *logrus.Logger
}

func NewSubscriberHandler(uc domain.SubscriberUseCase, logger *logrus.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *SubscriberHandler) RegisterRoutes(authed gin.IRouter) {
	subscribers := authed.Group("/subscribers")
	{
		subscribers.POST("", h.Subscribe)
		subscribers.GET("", h.ListSubscribers)
		subscribers.DELETE("/:id", h.DeleteSubscriber)
	}
}

func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for subscribe (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	subscriber, err := h.useCase.Subscribe(actor.ID, req.Email)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Subscribed successfully", subscriber)
}

func (h *SubscriberHandler) ListSubscribers(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	subscribers, err := h.useCase.ListSubscribers(actor)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Subscribers retrieved successfully", subscribers)
}

func (h *SubscriberHandler) DeleteSubscriber(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid subscriber ID format")
		return
	}

	if err := h.useCase.DeleteSubscriber(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Subscriber deleted successfully", nil)
}
