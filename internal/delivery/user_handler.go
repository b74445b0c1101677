package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *UserHandler) RegisterRoutes(public, authed gin.IRouter) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/verify-email", h.VerifyEmail)
	}

	authed.GET("/me", h.GetProfile)
	authed.PUT("/update", h.UpdateProfile)
	authed.DELETE("/delete/:id", h.DeleteUser)
	authed.GET("/users", h.ListUsers)
	authed.GET("/users/:id", h.GetUser)
}

type registerRequest struct {
	Username string          `json:"username"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Address  *domain.Address `json:"address"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(req.Username, req.Phone, req.Email, req.Password, req.Address)
	if err != nil {
		h.log.Warnf("Registration failed for phone %s: %v", req.Phone, err)
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}

	h.log.Infof("User %d registered via API", user.ID)
	SuccessResponse(c, http.StatusCreated, "User registered successfully. Please verify your email.", user)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Phone
	}
	if identifier == "" {
		identifier = req.Email
	}

	auth, err := h.useCase.Login(identifier, req.Password)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Logged in successfully", auth)
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	user, err := h.useCase.VerifyEmail(token)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}

	h.log.Infof("Email verified for user %d", user.ID)
	SuccessResponse(c, http.StatusOK, "Email verified successfully", user)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	user, err := h.useCase.GetProfile(actor.ID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var upd domain.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.log.Warnf("Failed to bind JSON for profile update (user %d): %v", actor.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.UpdateProfile(actor.ID, upd)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.useCase.DeleteUser(actor, id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	users, err := h.useCase.ListUsers(actor)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.useCase.GetUser(actor, id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "User retrieved successfully", user)
}
