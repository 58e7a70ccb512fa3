package handler

import (
	"strings"

	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler exposes registration, login and session endpoints
type AuthHandler struct {
	auth *identity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input identity.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input identity.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identity.RefreshInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.auth.RefreshToken(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// UpdateSessionRequest is the PATCH /api/auth/session body
type UpdateSessionRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
}

// UpdateSession handles PATCH /api/auth/session. The profile change is
// persisted and a fresh access token carrying the new claims is returned.
func (h *AuthHandler) UpdateSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	token := strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix)
	result, err := h.auth.UpdateSession(c.Request.Context(), p.UserID, token, auth.SessionUpdate{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
