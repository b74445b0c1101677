package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(authed gin.IRouter) {
	cart := authed.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items", h.UpdateItemQuantity)
		cart.DELETE("/items", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	cart, err := h.useCase.GetCart(actor.ID)
	if err != nil {
		h.log.Errorf("Failed to get cart for user %d: %v", actor.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", cart)
}

type cartItemRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for add cart item (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.useCase.AddItem(actor.ID, req.ProductID, req.Quantity, req.Color, req.Size)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for update cart item (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	key := domain.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
	cart, err := h.useCase.UpdateItemQuantity(actor.ID, key, req.Quantity)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart item updated", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for remove cart item (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	key := domain.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
	cart, err := h.useCase.RemoveItem(actor.ID, key)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	if err := h.useCase.ClearCart(actor.ID); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart cleared successfully", nil)
}
