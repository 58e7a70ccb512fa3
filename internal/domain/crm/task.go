package crm

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// TaskStatus represents the task lifecycle
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task represents an assignable to-do item
type Task struct {
	shared.TenantEntity
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	AssignedTo  uuid.UUID    `gorm:"type:uuid;not null;index" json:"assigned_to"`
	AssignedBy  uuid.UUID    `gorm:"type:uuid;not null" json:"assigned_by"`
	ContactID   *uuid.UUID   `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	DealID      *uuid.UUID   `gorm:"type:uuid;index" json:"deal_id,omitempty"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Tags        string       `gorm:"type:jsonb;default:'[]'" json:"tags,omitempty"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a task assigned by assignedBy to assignedTo
func NewTask(companyID, assignedTo, assignedBy uuid.UUID, title string, priority TaskPriority) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
	case "":
		priority = TaskPriorityMedium
	default:
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}

	return &Task{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, assignedBy),
		Title:        strings.TrimSpace(title),
		AssignedTo:   assignedTo,
		AssignedBy:   assignedBy,
		Priority:     priority,
		Status:       TaskStatusTodo,
		Tags:         "[]",
	}, nil
}

// Complete marks the task done
func (t *Task) Complete() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
}

// IsOverdue reports whether the task is past due and still open
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}
