package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(authed gin.IRouter) {
	orders := authed.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.POST("/apply-coupon", h.PreviewCoupon)
		orders.DELETE("/remove-coupon/:id", h.RemoveCoupon)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/shipping/:id", h.UpdateShipping)
		orders.PUT("/status/:id", h.UpdateStatus)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	h.log.Infof("Processing create order request for user %d", actor.ID)

	var in domain.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Warnf("Failed to bind JSON for create order (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.CreateOrder(actor.ID, in)
	if err != nil {
		h.log.Warnf("Failed to create order for user %d: %v", actor.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}

	h.log.Infof("Order %d created successfully for user %d", order.ID, actor.ID)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	orders, err := h.useCase.GetOrders(actor.ID)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %d: %v", actor.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve orders")
		return
	}
	if len(orders) == 0 {
		ErrorResponse(c, http.StatusNotFound, "No orders found for this user")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.useCase.GetOrder(actor, id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateShipping(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var addr domain.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		h.log.Warnf("Failed to bind JSON for shipping update on order %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateShippingAddress(actor, id, addr)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Shipping address updated successfully", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req struct {
		State  string `json:"state"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for status update on order %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	// The documented field is "state"; "status" is kept as an alias.
	state := req.State
	if state == "" {
		state = req.Status
	}
	if state == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'state' field is required")
		return
	}

	order, err := h.useCase.UpdateOrderStatus(actor, id, state)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	if err := h.useCase.DeleteOrder(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order deleted successfully", nil)
}

// PreviewCoupon prices a coupon against the caller's live cart without
// creating anything.
func (h *OrderHandler) PreviewCoupon(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req struct {
		CouponCode string `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for coupon preview (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	preview, err := h.useCase.PreviewCoupon(actor.ID, req.CouponCode)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon applied successfully", preview)
}

func (h *OrderHandler) RemoveCoupon(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.useCase.RemoveCoupon(actor, id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon removed successfully", order)
}
