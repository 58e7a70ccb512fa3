package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService handles assignable tasks
type TaskService struct {
	tasks         crm.TaskRepository
	notifications crm.NotificationRepository
	auditor       auditor
	logger        *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks crm.TaskRepository, notifications crm.NotificationRepository, audits crm.AuditLogRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:         tasks,
		notifications: notifications,
		auditor:       auditor{audits: audits, logger: logger},
		logger:        logger,
	}
}

// CreateTaskInput contains data for creating a task
type CreateTaskInput struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"omitempty"`
	AssignedTo  *string `json:"assigned_to" binding:"omitempty,uuid"`
	ContactID   *string `json:"contact_id" binding:"omitempty,uuid"`
	DealID      *string `json:"deal_id" binding:"omitempty,uuid"`
	Priority    string  `json:"priority" binding:"omitempty"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
}

// UpdateTaskInput contains data for updating a task
type UpdateTaskInput struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty"`
	Priority    *string `json:"priority" binding:"omitempty"`
	Status      *string `json:"status" binding:"omitempty"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
}

// Create creates a task, assigned to the caller unless stated otherwise.
// Assigning to someone else notifies them.
func (s *TaskService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateTaskInput, info RequestInfo) (*crm.Task, error) {
	assignedTo := userID
	if input.AssignedTo != nil {
		parsed, err := uuid.Parse(*input.AssignedTo)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		assignedTo = parsed
	}

	task, err := crm.NewTask(companyID, assignedTo, userID, input.Title, crm.TaskPriority(input.Priority))
	if err != nil {
		return nil, err
	}
	task.Description = input.Description
	if input.ContactID != nil {
		contactID, err := uuid.Parse(*input.ContactID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		task.ContactID = &contactID
	}
	if input.DealID != nil {
		dealID, err := uuid.Parse(*input.DealID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		task.DealID = &dealID
	}
	if input.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be RFC 3339")
		}
		task.DueDate = &due
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "task", task.ID, info)

	if assignedTo != userID {
		s.notifyAssignee(ctx, companyID, assignedTo, task)
	}
	return task, nil
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Task, error) {
	return s.tasks.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of tasks
func (s *TaskService) List(ctx context.Context, companyID uuid.UUID, filter crm.TaskFilter) (shared.Paginated[crm.Task], error) {
	tasks, total, err := s.tasks.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list tasks", zap.Error(err))
		return shared.Paginated[crm.Task]{}, shared.ErrInternal
	}
	return shared.NewPaginated(tasks, total, filter.Page, filter.Limit), nil
}

// Update modifies a task
func (s *TaskService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateTaskInput, info RequestInfo) (*crm.Task, error) {
	task, err := s.tasks.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		switch p := crm.TaskPriority(*input.Priority); p {
		case crm.TaskPriorityLow, crm.TaskPriorityMedium, crm.TaskPriorityHigh, crm.TaskPriorityUrgent:
			task.Priority = p
		default:
			return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
		}
	}
	if input.Status != nil {
		switch st := crm.TaskStatus(*input.Status); st {
		case crm.TaskStatusCompleted:
			task.Complete()
		case crm.TaskStatusTodo, crm.TaskStatusInProgress, crm.TaskStatusCancelled:
			task.Status = st
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown task status")
		}
	}
	if input.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be RFC 3339")
		}
		task.DueDate = &due
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update task", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "task", id, info)
	return task, nil
}

// Complete marks a task done
func (s *TaskService) Complete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) (*crm.Task, error) {
	status := string(crm.TaskStatusCompleted)
	return s.Update(ctx, companyID, userID, id, UpdateTaskInput{Status: &status}, info)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.tasks.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "task", id, info)
	return nil
}

func (s *TaskService) notifyAssignee(ctx context.Context, companyID, assignee uuid.UUID, task *crm.Task) {
	notification, err := crm.NewNotification(companyID, assignee, crm.NotificationTaskDue,
		"Task assigned to you",
		fmt.Sprintf("You have been assigned %q", task.Title),
		fmt.Sprintf("/tasks/%s", task.ID))
	if err != nil {
		return
	}
	if err := s.notifications.Save(ctx, notification); err != nil {
		s.logger.Warn("Failed to create task notification", zap.Error(err))
	}
}
