package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// PipelineHandler exposes pipeline configuration endpoints
type PipelineHandler struct {
	pipelines *crm.PipelineService
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(pipelines *crm.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelines: pipelines}
}

// Create handles POST /api/pipelines
func (h *PipelineHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreatePipelineInput
	if !bindJSON(c, &input) {
		return
	}

	pipeline, err := h.pipelines.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, pipeline)
}

// Get handles GET /api/pipelines/:id
func (h *PipelineHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	pipeline, err := h.pipelines.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pipeline)
}

// List handles GET /api/pipelines
func (h *PipelineHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	page, err := h.pipelines.List(c.Request.Context(), p.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/pipelines/:id
func (h *PipelineHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdatePipelineInput
	if !bindJSON(c, &input) {
		return
	}

	pipeline, err := h.pipelines.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pipeline)
}

// Delete handles DELETE /api/pipelines/:id
func (h *PipelineHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.pipelines.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
