package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/identity"
	domain "github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler lists company users for managers and above
type UserHandler struct {
	auth *identity.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *identity.AuthService) *UserHandler {
	return &UserHandler{auth: authService}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	if role := c.Query("role"); role != "" {
		if !domain.Role(role).IsValid() {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Unknown role"))
			return
		}
		filter.Filters["role"] = role
	}

	page, err := h.auth.ListUsers(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}
