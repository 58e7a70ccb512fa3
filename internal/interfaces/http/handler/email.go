package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmailHandler exposes email record endpoints
type EmailHandler struct {
	emails *crm.EmailService
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emails *crm.EmailService) *EmailHandler {
	return &EmailHandler{emails: emails}
}

// Create handles POST /api/emails
func (h *EmailHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateEmailInput
	if !bindJSON(c, &input) {
		return
	}

	email, err := h.emails.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, email)
}

// Get handles GET /api/emails/:id
func (h *EmailHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	email, err := h.emails.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, email)
}

// List handles GET /api/emails
func (h *EmailHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if contactID := c.Query("contact_id"); contactID != "" {
		id, err := uuid.Parse(contactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid contact_id"))
			return
		}
		filter.Filters["contact_id"] = id
	}

	page, err := h.emails.List(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/emails/:id
func (h *EmailHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateEmailInput
	if !bindJSON(c, &input) {
		return
	}

	email, err := h.emails.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, email)
}

// Schedule handles POST /api/emails/:id/schedule
func (h *EmailHandler) Schedule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.ScheduleEmailInput
	if !bindJSON(c, &input) {
		return
	}

	email, err := h.emails.Schedule(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, email)
}

// Delete handles DELETE /api/emails/:id
func (h *EmailHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.emails.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
