package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// DashboardHandler exposes dashboard aggregates
type DashboardHandler struct {
	dashboard *crm.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *crm.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	stats, err := h.dashboard.Stats(c.Request.Context(), p.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
