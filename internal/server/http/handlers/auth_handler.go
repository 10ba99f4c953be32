package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

const recoveryMessage = "If an account with that email exists, we have sent a password reset link."

// AuthHandler processes registration, login and password recovery.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	usr, err := h.facade.Register(c.Request.Context(), usecase.Registration{
		Email:     req.Email,
		Password:  req.Password,
		Code:      string(req.Codigo),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "User already exists"})
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		User:    dto.FromUser(*usr),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	usr, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password, req.EffectiveCode())
	if err != nil {
		abortWithError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.FromUser(*usr)})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Session handles GET /session/validate.
func (h *AuthHandler) Session(c *gin.Context) {
	token := middleware.ExtractToken(c)
	principal, err := h.facade.ValidateSession(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.SessionResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{Authenticated: true, User: dto.FromPrincipal(principal)})
}

// RecoverPassword handles POST /password-recovery. The reply is the same
// whether or not the address belongs to an account.
func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.facade.RecoverPassword(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: recoveryMessage})
}

// ResetPassword handles POST /password-reset.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.facade.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}

// ListUsers handles GET /users.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.facade.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUsers(users))
}
