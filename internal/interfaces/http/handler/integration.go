package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler exposes provider connection endpoints
type IntegrationHandler struct {
	integrations *crm.IntegrationService
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations *crm.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations}
}

// Connect handles POST /api/integrations
func (h *IntegrationHandler) Connect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.ConnectIntegrationInput
	if !bindJSON(c, &input) {
		return
	}

	integration, err := h.integrations.Connect(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, integration)
}

// List handles GET /api/integrations
func (h *IntegrationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	if provider := c.Query("provider"); provider != "" {
		filter.Filters["provider"] = provider
	}

	page, err := h.integrations.List(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/integrations/:id
func (h *IntegrationHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateIntegrationInput
	if !bindJSON(c, &input) {
		return
	}

	integration, err := h.integrations.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, integration)
}

// Disconnect handles DELETE /api/integrations/:id
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.integrations.Disconnect(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"disconnected": true})
}
