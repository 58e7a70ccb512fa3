package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PipelineService handles pipeline configuration
type PipelineService struct {
	pipelines crm.PipelineRepository
	auditor   auditor
	logger    *zap.Logger
}

// NewPipelineService creates a new PipelineService
func NewPipelineService(pipelines crm.PipelineRepository, audits crm.AuditLogRepository, logger *zap.Logger) *PipelineService {
	return &PipelineService{
		pipelines: pipelines,
		auditor:   auditor{audits: audits, logger: logger},
		logger:    logger,
	}
}

// StageInput is one pipeline stage definition
type StageInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Order       int    `json:"order" binding:"min=0"`
	Probability int    `json:"probability" binding:"min=0,max=100"`
}

// CreatePipelineInput contains data for creating a pipeline
type CreatePipelineInput struct {
	Name        string       `json:"name" binding:"required,max=200"`
	Description string       `json:"description" binding:"omitempty"`
	Stages      []StageInput `json:"stages" binding:"required,min=1,dive"`
}

// UpdatePipelineInput contains data for updating a pipeline
type UpdatePipelineInput struct {
	Name        *string      `json:"name" binding:"omitempty,max=200"`
	Description *string      `json:"description" binding:"omitempty"`
	Stages      []StageInput `json:"stages" binding:"omitempty,min=1,dive"`
}

// Create creates a custom (non-default) pipeline
func (s *PipelineService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreatePipelineInput, info RequestInfo) (*crm.Pipeline, error) {
	stages := make([]crm.PipelineStage, len(input.Stages))
	for i, st := range input.Stages {
		stages[i] = crm.PipelineStage{Name: st.Name, Order: st.Order, Probability: st.Probability}
	}

	pipeline, err := crm.NewPipeline(companyID, input.Name, input.Description, stages, false)
	if err != nil {
		return nil, err
	}

	if err := s.pipelines.Save(ctx, pipeline); err != nil {
		s.logger.Error("Failed to create pipeline", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionCreate, "pipeline", pipeline.ID, info)
	return pipeline, nil
}

// Get returns one pipeline
func (s *PipelineService) Get(ctx context.Context, companyID, id uuid.UUID) (*crm.Pipeline, error) {
	return s.pipelines.FindByIDForCompany(ctx, companyID, id)
}

// List returns the company's pipelines
func (s *PipelineService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Pipeline], error) {
	pipelines, total, err := s.pipelines.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("Failed to list pipelines", zap.Error(err))
		return shared.Paginated[crm.Pipeline]{}, shared.ErrInternal
	}
	return shared.NewPaginated(pipelines, total, filter.Page, filter.Limit), nil
}

// Update modifies a pipeline's name, description or stages
func (s *PipelineService) Update(ctx context.Context, companyID, userID, id uuid.UUID, input UpdatePipelineInput, info RequestInfo) (*crm.Pipeline, error) {
	pipeline, err := s.pipelines.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		pipeline.Name = *input.Name
	}
	if input.Description != nil {
		pipeline.Description = *input.Description
	}
	if len(input.Stages) > 0 {
		stages := make([]crm.PipelineStage, len(input.Stages))
		for i, st := range input.Stages {
			stages[i] = crm.PipelineStage{Name: st.Name, Order: st.Order, Probability: st.Probability}
		}
		if err := pipeline.SetStages(stages); err != nil {
			return nil, err
		}
	}

	if err := s.pipelines.Update(ctx, pipeline); err != nil {
		s.logger.Error("Failed to update pipeline", zap.Error(err))
		return nil, shared.ErrInternal
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionUpdate, "pipeline", id, info)
	return pipeline, nil
}

// Delete removes a pipeline. The default pipeline cannot be deleted.
func (s *PipelineService) Delete(ctx context.Context, companyID, userID, id uuid.UUID, info RequestInfo) error {
	pipeline, err := s.pipelines.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if pipeline.IsDefault {
		return shared.NewDomainError("DEFAULT_PIPELINE", "The default pipeline cannot be deleted")
	}

	if err := s.pipelines.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.auditor.record(ctx, companyID, userID, crm.AuditActionDelete, "pipeline", id, info)
	return nil
}
