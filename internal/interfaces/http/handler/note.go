package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NoteHandler exposes note endpoints
type NoteHandler struct {
	notes *crm.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(notes *crm.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Create handles POST /api/notes
func (h *NoteHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateNoteInput
	if !bindJSON(c, &input) {
		return
	}

	note, err := h.notes.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, note)
}

// Get handles GET /api/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	note, err := h.notes.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// List handles GET /api/notes
func (h *NoteHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	for _, param := range []string{"contact_id", "deal_id"} {
		if value := c.Query(param); value != "" {
			id, err := uuid.Parse(value)
			if err != nil {
				c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid "+param))
				return
			}
			filter.Filters[param] = id
		}
	}

	page, err := h.notes.List(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateNoteInput
	if !bindJSON(c, &input) {
		return
	}

	note, err := h.notes.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// Delete handles DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
