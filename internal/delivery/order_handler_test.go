package delivery

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

// stubOrderUseCase records what the handler asked for and returns canned
// results. Only the status path is exercised here.
type stubOrderUseCase struct {
	mu sync.Mutex

	statusActor   domain.Actor
	statusOrderID int64
	statusState   string
	statusErr     error
}

func (s *stubOrderUseCase) CreateOrder(userID int64, in domain.CreateOrderInput) (*domain.Order, error) {
	return nil, domain.ErrEmptyOrder
}

func (s *stubOrderUseCase) GetOrders(userID int64) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderUseCase) GetOrder(actor domain.Actor, orderID int64) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderUseCase) UpdateShippingAddress(actor domain.Actor, orderID int64, addr domain.ShippingAddress) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderUseCase) UpdateOrderStatus(actor domain.Actor, orderID int64, state string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusActor = actor
	s.statusOrderID = orderID
	s.statusState = state
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &domain.Order{ID: orderID, UserID: 7, State: domain.OrderState(state)}, nil
}

func (s *stubOrderUseCase) DeleteOrder(actor domain.Actor, orderID int64) error {
	return domain.ErrOrderNotFound
}

func (s *stubOrderUseCase) PreviewCoupon(userID int64, couponCode string) (*domain.CouponPreview, error) {
	return nil, domain.ErrInvalidCoupon
}

func (s *stubOrderUseCase) RemoveCoupon(actor domain.Actor, orderID int64) (*domain.Order, error) {
	return nil, domain.ErrNoCouponApplied
}

func newOrderTestRouter(uc domain.OrderUseCase, actor domain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, actor.ID)
		c.Set(middleware.ContextRoleKey, string(actor.Role))
	})
	NewOrderHandler(uc, logger).RegisterRoutes(router)
	return router
}

func doStatusUpdate(t *testing.T, router *gin.Engine, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestUpdateStatusBindsStateField(t *testing.T) {
	uc := &stubOrderUseCase{}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleAdmin})

	rec, resp := doStatusUpdate(t, router, "/orders/status/5", `{"state":"shipped"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", resp.Status)
	assert.Equal(t, "shipped", uc.statusState)
	assert.Equal(t, int64(5), uc.statusOrderID)
	assert.Equal(t, int64(42), uc.statusActor.ID)
}

func TestUpdateStatusAcceptsStatusAlias(t *testing.T) {
	uc := &stubOrderUseCase{}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleAdmin})

	rec, resp := doStatusUpdate(t, router, "/orders/status/9", `{"status":"delivered"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", resp.Status)
	assert.Equal(t, "delivered", uc.statusState)
}

func TestUpdateStatusPrefersStateOverAlias(t *testing.T) {
	uc := &stubOrderUseCase{}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleAdmin})

	rec, _ := doStatusUpdate(t, router, "/orders/status/5", `{"state":"shipped","status":"cancelled"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", uc.statusState)
}

func TestUpdateStatusRejectsMissingState(t *testing.T) {
	uc := &stubOrderUseCase{}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleAdmin})

	rec, resp := doStatusUpdate(t, router, "/orders/status/5", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Fail", resp.Status)
	assert.Contains(t, resp.Message, "'state'")
	assert.Empty(t, uc.statusState)
}

func TestUpdateStatusMapsForbidden(t *testing.T) {
	uc := &stubOrderUseCase{statusErr: domain.ErrForbidden}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleUser})

	rec, resp := doStatusUpdate(t, router, "/orders/status/5", `{"state":"shipped"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Fail", resp.Status)
}

func TestUpdateStatusRejectsBadOrderID(t *testing.T) {
	uc := &stubOrderUseCase{}
	router := newOrderTestRouter(uc, domain.Actor{ID: 42, Role: domain.RoleAdmin})

	rec, resp := doStatusUpdate(t, router, "/orders/status/abc", `{"state":"shipped"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Fail", resp.Status)
	assert.Zero(t, uc.statusOrderID)
}
