package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler exposes the audit trail to administrators
type AuditHandler struct {
	audits *crm.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audits *crm.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List handles GET /api/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.Filters["entity_type"] = entityType
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid user_id"))
			return
		}
		filter.Filters["user_id"] = id
	}

	page, err := h.audits.List(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}
