package handler

import (
	"github.com/crm/backend/internal/application/crm"
	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/gin-gonic/gin"
)

// ContactHandler exposes contact CRUD endpoints
type ContactHandler struct {
	contacts *crm.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *crm.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateContactInput
	if !bindJSON(c, &input) {
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, contact)
}

// Get handles GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, contact)
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	contactFilter := domain.ContactFilter{
		Filter:     filter,
		Status:     domain.ContactStatus(c.Query("status")),
		LeadSource: domain.LeadSource(c.Query("lead_source")),
	}

	page, err := h.contacts.List(c.Request.Context(), p.CompanyID, contactFilter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateContactInput
	if !bindJSON(c, &input) {
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, contact)
}

// Delete handles DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
