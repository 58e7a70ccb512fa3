package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler exposes activity endpoints
type ActivityHandler struct {
	activities *crm.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activities *crm.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Create handles POST /api/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateActivityInput
	if !bindJSON(c, &input) {
		return
	}

	activity, err := h.activities.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, activity)
}

// Get handles GET /api/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	activity, err := h.activities.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activity)
}

// List handles GET /api/activities
func (h *ActivityHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	activityFilter := domain.ActivityFilter{
		Filter: filter,
		Type:   domain.ActivityType(c.Query("type")),
		Status: domain.ActivityStatus(c.Query("status")),
	}
	if contactID := c.Query("contact_id"); contactID != "" {
		id, err := uuid.Parse(contactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid contact_id"))
			return
		}
		activityFilter.ContactID = &id
	}
	if dealID := c.Query("deal_id"); dealID != "" {
		id, err := uuid.Parse(dealID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid deal_id"))
			return
		}
		activityFilter.DealID = &id
	}

	page, err := h.activities.List(c.Request.Context(), p.CompanyID, activityFilter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateActivityInput
	if !bindJSON(c, &input) {
		return
	}

	activity, err := h.activities.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activity)
}

// CompleteActivityRequest is the POST /api/activities/:id/complete body
type CompleteActivityRequest struct {
	Outcome string `json:"outcome" binding:"omitempty"`
}

// Complete handles POST /api/activities/:id/complete
func (h *ActivityHandler) Complete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CompleteActivityRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	activity, err := h.activities.Complete(c.Request.Context(), p.CompanyID, p.UserID, id, req.Outcome, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activity)
}

// Delete handles DELETE /api/activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.activities.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
