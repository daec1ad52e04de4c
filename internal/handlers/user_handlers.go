package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/services"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/gin-gonic/gin"
)

// Accounts registers users and records logins
type Accounts interface {
	Register(ctx context.Context, username, password string) (*models.User, tenant.Store, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// UserHandler handles user-related endpoints
type UserHandler struct {
	authSvc Accounts
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authSvc Accounts) *UserHandler {
	return &UserHandler{
		authSvc: authSvc,
	}
}

// Register handles POST /users
// @Summary Register a user
// @Description Create the user's tenant store and account
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Credentials"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, store, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{Username: user.Username, Tenant: store.Schema})
}

// Login handles POST /login
// @Summary Log in
// @Description Check Basic credentials and record the login time
// @Tags users
// @Produce json
// @Security BasicAuth
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="watchlist"`)
		respondError(c, services.ErrInvalidCredentials)
		return
	}

	user, err := h.authSvc.Login(c.Request.Context(), username, password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.LoginResponse{Username: user.Username}
	if user.LastLogin != nil {
		resp.LastLogin = user.LastLogin.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
