package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
)

type AuthHandler struct {
	svc *service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "username and password are required")
		return
	}

	pair, account, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, err.Error())
			return
		}
		InternalError(c, "login failed: "+err.Error())
		return
	}

	Success(c, gin.H{"token": pair, "account": account})
}

// GuestLogin POST /api/v1/auth/guest
func (h *AuthHandler) GuestLogin(c *gin.Context) {
	pair, account, err := h.svc.GuestLogin(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrGuestDisabled) {
			Unauthorized(c, err.Error())
			return
		}
		InternalError(c, "guest login failed: "+err.Error())
		return
	}

	Success(c, gin.H{"token": pair, "account": account})
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token is required")
		return
	}

	pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Unauthorized(c, "invalid refresh token")
		return
	}

	Success(c, gin.H{"token": pair})
}
