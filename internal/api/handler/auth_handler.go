package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/service"
	"dormhop/backend/pkg/response"
)

// AuthHandler auth module HTTP handlers
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// GoogleSignIn sign in with a Google ID token; 201 when the account is new
// POST /api/v1/auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, created, err := h.authSvc.GoogleSignIn(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	if created {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// Register development registration without an identity provider
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.Created(c, result)
}

// Logout revokes the current token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := tokenInfo(c)
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		internalError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidIDToken):
		response.FromError(c, 11001, err)
	case errors.Is(err, service.ErrEmailDomainNotAllowed):
		response.FromError(c, 11002, err)
	case errors.Is(err, service.ErrClassYearRequired):
		response.FromError(c, 11003, err)
	case errors.Is(err, service.ErrEmailTaken):
		response.FromError(c, 11004, err)
	case errors.Is(err, service.ErrRoomGenderMismatch):
		response.FromError(c, 12002, err)
	default:
		internalError(c, err)
	}
}
