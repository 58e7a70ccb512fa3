package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealHandler exposes deal CRUD and stage movement endpoints
type DealHandler struct {
	deals *crm.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(deals *crm.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// Create handles POST /api/deals
func (h *DealHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateDealInput
	if !bindJSON(c, &input) {
		return
	}

	deal, err := h.deals.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, deal)
}

// Get handles GET /api/deals/:id
func (h *DealHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	deal, err := h.deals.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, deal)
}

// List handles GET /api/deals
func (h *DealHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	dealFilter := domain.DealFilter{
		Filter: filter,
		Stage:  domain.DealStage(c.Query("stage")),
	}
	if pipelineID := c.Query("pipeline_id"); pipelineID != "" {
		id, err := uuid.Parse(pipelineID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid pipeline_id"))
			return
		}
		dealFilter.PipelineID = &id
	}
	if contactID := c.Query("contact_id"); contactID != "" {
		id, err := uuid.Parse(contactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid contact_id"))
			return
		}
		dealFilter.ContactID = &id
	}
	if minValue := c.Query("min_value"); minValue != "" {
		v, err := decimal.NewFromString(minValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid min_value"))
			return
		}
		dealFilter.MinValue = &v
	}
	if maxValue := c.Query("max_value"); maxValue != "" {
		v, err := decimal.NewFromString(maxValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid max_value"))
			return
		}
		dealFilter.MaxValue = &v
	}

	page, err := h.deals.List(c.Request.Context(), p.CompanyID, dealFilter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateDealInput
	if !bindJSON(c, &input) {
		return
	}

	deal, err := h.deals.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, deal)
}

// MoveStage handles POST /api/deals/:id/stage
func (h *DealHandler) MoveStage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.MoveStageInput
	if !bindJSON(c, &input) {
		return
	}

	deal, err := h.deals.MoveStage(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, deal)
}

// Delete handles DELETE /api/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.deals.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
