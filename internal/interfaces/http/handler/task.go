package handler

import (
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler exposes task endpoints
type TaskHandler struct {
	tasks *crm.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *crm.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input crm.CreateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), p.CompanyID, p.UserID, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, task)
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, task)
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	taskFilter := domain.TaskFilter{
		Filter:   filter,
		Status:   domain.TaskStatus(c.Query("status")),
		Priority: domain.TaskPriority(c.Query("priority")),
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := uuid.Parse(assignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid assigned_to"))
			return
		}
		taskFilter.AssignedTo = &id
	}

	page, err := h.tasks.List(c.Request.Context(), p.CompanyID, taskFilter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input crm.UpdateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), p.CompanyID, p.UserID, id, input, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, task)
}

// Complete handles POST /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Complete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), p.CompanyID, p.UserID, id, requestInfo(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
