package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(public, authed gin.IRouter) {
	public.GET("/products", h.ListProducts)
	public.GET("/products/:id", h.GetProduct)

	authed.POST("/products", h.CreateProduct)
	authed.PUT("/products/:id", h.UpdateProduct)
	authed.DELETE("/products/:id", h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateProduct(actor, &product)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.useCase.GetProduct(id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Query:      c.Query("q"),
		Discounted: c.Query("discounted") == "true",
	}

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		} else {
			h.log.Warnf("Ignoring invalid minPrice parameter: %s", raw)
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		} else {
			h.log.Warnf("Ignoring invalid maxPrice parameter: %s", raw)
		}
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	filter.Page = page
	filter.Limit = limit

	result, err := h.useCase.ListProducts(filter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", result)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Warnf("Failed to bind JSON for update product %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	product.ID = id

	updated, err := h.useCase.UpdateProduct(actor, &product)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.DeleteProduct(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}
