package crm

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityService handles logged interactions
type ActivityService struct {
	activities crm.ActivityRepository
	auditor    auditor
	logger     *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(activities crm.ActivityRepository, audits crm.AuditLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		auditor:    auditor{audits: audits, logger: logger},
		logger:     logger,
	}
}

// CreateActivityInput contains data for logging an activity
type CreateActivityInput struct {
	Type        string  `json:"type" binding:"required"`
	Subject     string  `json:"subject" binding:"required,max=255"`
	Description string  `json:"description" binding:"omitempty"`
	ContactID   *string `json:"contact_id" binding:"omitempty,uuid"`
	DealID      *string `json:"deal_id" binding:"omitempty,uuid"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
	Duration    int     `json:"duration" binding:"omitempty,min=0"`
}

// UpdateActivityInput contains data for updating an activity
type UpdateActivityInput struct {
	Subject     *string `json:"subject" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
	Duration    *int    `json:"duration" binding:"omitempty,min=0"`
	Outcome     *string `json:"outcome" binding:"omitempty"`
}

// Create logs an activity
func (s *ActivityService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateActivityInput, info RequestInfo) (*crm.Activity, error) {
	activity, err := crm.NewActivity(companyID, userID, userID, crm.ActivityType(input.Type), input.Subject)
	if err != nil {
		return nil, err
	}
	activity.Description = input.Description
	activity.Duration = input.Duration
	if input.ContactID != nil {
		contactID, err := uuid.Parse(*input.ContactID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		activity.ContactID = &contactID
	}
	if input.DealID != nil {
		dealID, err := uuid.Parse(*input.DealID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		activity.DealID = &dealID
	}
	if input.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be RFC 3339")
		}
		activity.DueDate = &due
	}

	if err := s.activities.Save(ctx, activity); err != nil {
		s.logger.Error("Failed to create activity", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "activity", activity.ID, info)
	return activity, nil
}

// Get returns one activity
func (s *ActivityService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Activity, error) {
	return s.activities.FindByIDForCompany(ctx, companyID, id)
}

// List returns a page of activities
func (s *ActivityService) List(ctx context.Context, companyID uuid.UUID, filter crm.ActivityFilter) (shared.Paginated[crm.Activity], error) {
	activities, total, err := s.activities.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list activities", zap.Error(err))
		return shared.Paginated[crm.Activity]{}, shared.ErrInternal
	}
	return shared.NewPaginated(activities, total, filter.Page, filter.Limit), nil
}

// Update modifies a pending activity
func (s *ActivityService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateActivityInput, info RequestInfo) (*crm.Activity, error) {
	activity, err := s.activities.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Subject != nil && *input.Subject != "" {
		activity.Subject = *input.Subject
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Duration != nil {
		activity.Duration = *input.Duration
	}
	if input.Outcome != nil {
		activity.Outcome = *input.Outcome
	}
	if input.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be RFC 3339")
		}
		activity.DueDate = &due
	}

	if err := s.activities.Update(ctx, activity); err != nil {
		s.logger.Error("Failed to update activity", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "activity", id, info)
	return activity, nil
}

// Complete marks an activity done with an optional outcome
func (s *ActivityService) Complete(ctx context.Context, companyID, userID, id uuid.UUID, outcome string, info RequestInfo) (*crm.Activity, error) {
	activity, err := s.activities.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	activity.Complete(outcome)

	if err := s.activities.Update(ctx, activity); err != nil {
		s.logger.Error("Failed to complete activity", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "activity", id, info)
	return activity, nil
}

// Delete removes an activity
func (s *ActivityService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.activities.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "activity", id, info)
	return nil
}
