package delivery

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type CouponHandler struct {
	useCase domain.CouponUseCase
	log     *logrus.Logger
}

func NewCouponHandler(uc domain.CouponUseCase, logger *logrus.Logger) *CouponHandler {
	return &CouponHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CouponHandler) RegisterRoutes(authed gin.IRouter) {
	coupons := authed.Group("/coupons")
	{
		coupons.POST("", h.CreateCoupon)
		coupons.GET("", h.ListCoupons)
		coupons.DELETE("/:id", h.DeleteCoupon)
	}
}

type createCouponRequest struct {
	Code         string          `json:"code"`
	Type         string          `json:"type"`
	Value        decimal.Decimal `json:"value"`
	MinCartValue decimal.Decimal `json:"minCartValue"`
	ExpiresAt    *time.Time      `json:"expiresAt"`
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for create coupon: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	coupon := &domain.Coupon{
		Code:         req.Code,
		Type:         domain.DiscountType(req.Type),
		Value:        req.Value,
		MinCartValue: req.MinCartValue,
		ExpiresAt:    req.ExpiresAt,
	}

	created, err := h.useCase.CreateCoupon(actor, coupon)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Coupon created successfully", created)
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	coupons, err := h.useCase.ListCoupons(actor)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid coupon ID format")
		return
	}

	if err := h.useCase.DeleteCoupon(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon deleted successfully", nil)
}
