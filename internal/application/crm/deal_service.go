package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DealService handles deal operations including stage movement
type DealService struct {
	deals         crm.DealRepository
	pipelines     crm.PipelineRepository
	notifications crm.NotificationRepository
	cache         *cache.Cache
	auditor       auditor
	listTTL       time.Duration
	itemKey       cache.Key
	listKey       cache.Key
	logger        *zap.Logger
}

// NewDealService creates a new DealService
func NewDealService(
	deals crm.DealRepository,
	pipelines crm.PipelineRepository,
	notifications crm.NotificationRepository,
	audits crm.AuditLogRepository,
	c *cache.Cache,
	listTTL time.Duration,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		deals:         deals,
		pipelines:     pipelines,
		notifications: notifications,
		cache:         c,
		auditor:       auditor{audits: audits, logger: logger},
		listTTL:       listTTL,
		itemKey:       cache.NewKey("deals", "item"),
		listKey:       cache.NewKey("deals", "list"),
		logger:        logger,
	}
}

// CreateDealInput contains data for creating a deal
type CreateDealInput struct {
	Name              string  `json:"name" binding:"required,max=200"`
	Description       string  `json:"description" binding:"omitempty"`
	Value             string  `json:"value" binding:"omitempty"`
	Currency          string  `json:"currency" binding:"omitempty,len=3"`
	PipelineID        *string `json:"pipeline_id" binding:"omitempty,uuid"`
	ContactID         *string `json:"contact_id" binding:"omitempty,uuid"`
	OwnerID           *string `json:"owner_id" binding:"omitempty,uuid"`
	ExpectedCloseDate *string `json:"expected_close_date" binding:"omitempty"`
}

// UpdateDealInput contains data for updating a deal
type UpdateDealInput struct {
	Name              *string `json:"name" binding:"omitempty,max=200"`
	Description       *string `json:"description" binding:"omitempty"`
	Value             *string `json:"value" binding:"omitempty"`
	Currency          *string `json:"currency" binding:"omitempty,len=3"`
	OwnerID           *string `json:"owner_id" binding:"omitempty,uuid"`
	ExpectedCloseDate *string `json:"expected_close_date" binding:"omitempty"`
	Tags              *string `json:"tags" binding:"omitempty"`
}

// MoveStageInput contains data for a stage transition
type MoveStageInput struct {
	Stage      string `json:"stage" binding:"required"`
	LostReason string `json:"lost_reason" binding:"omitempty"`
}

// Create creates a deal in the given pipeline, defaulting to the company's
// default pipeline
func (s *DealService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateDealInput, info RequestInfo) (*crm.Deal, error) {
	pipeline, err := s.resolvePipeline(ctx, companyID, input.PipelineID)
	if err != nil {
		return nil, err
	}

	value := decimal.Zero
	if input.Value != "" {
		value, err = decimal.NewFromString(input.Value)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_VALUE", "Deal value must be a decimal number")
		}
	}

	ownerID := userID
	if input.OwnerID != nil {
		parsed, err := uuid.Parse(*input.OwnerID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		ownerID = parsed
	}

	deal, err := crm.NewDeal(companyID, pipeline.ID, ownerID, userID, input.Name, value)
	if err != nil {
		return nil, err
	}
	deal.Description = input.Description
	if input.Currency != "" {
		deal.Currency = input.Currency
	}
	if input.ContactID != nil {
		contactID, err := uuid.Parse(*input.ContactID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		deal.ContactID = &contactID
	}
	if input.ExpectedCloseDate != nil {
		closeDate, err := time.Parse(time.RFC3339, *input.ExpectedCloseDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Expected close date must be RFC 3339")
		}
		deal.ExpectedCloseDate = &closeDate
	}

	if err := s.deals.Save(ctx, deal); err != nil {
		s.logger.Error("Failed to create deal", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.invalidate(ctx, companyID, deal.ID)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "deal", deal.ID, info)

	if ownerID != userID {
		s.notifyAssignment(ctx, companyID, ownerID, deal)
	}
	return deal, nil
}

// Get returns one deal, read through the item cache
func (s *DealService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Deal, error) {
	key := s.itemKey.For(companyID, id.String())

	var cached crm.Deal
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	deal, err := s.deals.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, deal, s.listTTL)
	return deal, nil
}

// List returns a page of deals, read through the list cache
func (s *DealService) List(ctx context.Context, companyID uuid.UUID, filter crm.DealFilter) (shared.Paginated[crm.Deal], error) {
	extra := []string{discriminator("stage", string(filter.Stage))}
	if filter.PipelineID != nil {
		extra = append(extra, "pipeline="+filter.PipelineID.String())
	}
	if filter.ContactID != nil {
		extra = append(extra, "contact="+filter.ContactID.String())
	}
	if filter.MinValue != nil {
		extra = append(extra, "min="+filter.MinValue.String())
	}
	if filter.MaxValue != nil {
		extra = append(extra, "max="+filter.MaxValue.String())
	}
	key := s.listKey.For(companyID, listDiscriminators(filter.Filter, extra...)...)

	var cached shared.Paginated[crm.Deal]
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	deals, total, err := s.deals.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list deals", zap.Error(err))
		return shared.Paginated[crm.Deal]{}, shared.ErrInternal
	}

	page := shared.NewPaginated(deals, total, filter.Page, filter.Limit)
	s.cache.Set(ctx, key, page, s.listTTL)
	return page, nil
}

// Update applies a partial update to a deal
func (s *DealService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdateDealInput, info RequestInfo) (*crm.Deal, error) {
	deal, err := s.deals.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	previousOwner := deal.OwnerID

	if input.Name != nil && *input.Name != "" {
		deal.Name = *input.Name
	}
	if input.Description != nil {
		deal.Description = *input.Description
	}
	if input.Value != nil {
		value, err := decimal.NewFromString(*input.Value)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_VALUE", "Deal value must be a decimal number")
		}
		if err := deal.SetValue(value); err != nil {
			return nil, err
		}
	}
	if input.Currency != nil && *input.Currency != "" {
		deal.Currency = *input.Currency
	}
	if input.OwnerID != nil {
		ownerID, err := uuid.Parse(*input.OwnerID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		deal.OwnerID = ownerID
	}
	if input.ExpectedCloseDate != nil {
		closeDate, err := time.Parse(time.RFC3339, *input.ExpectedCloseDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Expected close date must be RFC 3339")
		}
		deal.ExpectedCloseDate = &closeDate
	}
	if input.Tags != nil {
		deal.Tags = *input.Tags
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		s.logger.Error("Failed to update deal", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.invalidate(ctx, companyID, id)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "deal", id, info)

	if deal.OwnerID != previousOwner {
		s.notifyAssignment(ctx, companyID, deal.OwnerID, deal)
	}
	return deal, nil
}

// MoveStage transitions a deal to a new pipeline stage, taking the stage
// probability from the deal's pipeline
func (s *DealService) MoveStage(ctx context.Context, companyID, userID, id uuid.UUID, input MoveStageInput, info RequestInfo) (*crm.Deal, error) {
	deal, err := s.deals.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.pipelines.FindByIDForCompany(ctx, companyID, deal.PipelineID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load pipeline for stage move", zap.Error(err))
		return nil, shared.ErrInternal
	}

	if err := deal.MoveStage(crm.DealStage(input.Stage), input.LostReason, pipeline); err != nil {
		return nil, err
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		s.logger.Error("Failed to move deal stage", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.invalidate(ctx, companyID, id)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "deal", id, info)
	return deal, nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	if err := s.deals.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}

	s.invalidate(ctx, companyID, id)
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "deal", id, info)
	return nil
}

func (s *DealService) resolvePipeline(ctx context.Context, companyID uuid.UUID, pipelineID *string) (*crm.Pipeline, error) {
	if pipelineID != nil {
		id, err := uuid.Parse(*pipelineID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		return s.pipelines.FindByIDForCompany(ctx, companyID, id)
	}
	return s.pipelines.FindDefaultForCompany(ctx, companyID)
}

func (s *DealService) notifyAssignment(ctx context.Context, companyID, ownerID uuid.UUID, deal *crm.Deal) {
	notification, err := crm.NewNotification(companyID, ownerID, crm.NotificationDealAssigned,
		"Deal assigned to you",
		fmt.Sprintf("You are now the owner of %q", deal.Name),
		fmt.Sprintf("/deals/%s", deal.ID))
	if err != nil {
		return
	}
	if err := s.notifications.Save(ctx, notification); err != nil {
		s.logger.Warn("Failed to create assignment notification", zap.Error(err))
	}
}

func (s *DealService) invalidate(ctx context.Context, companyID, id uuid.UUID) {
	s.cache.Delete(ctx, s.itemKey.For(companyID, id.String()))
	s.cache.DeleteByPrefix(ctx, s.listKey.Prefix(companyID))
	// Dashboard aggregates depend on deal values and stages
	s.cache.DeleteByPrefix(ctx, cache.NewKey("dashboard", "stats").Prefix(companyID))
}
