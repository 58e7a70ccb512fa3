package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealFilter narrows deal list queries. Search matches name and description.
type DealFilter struct {
	shared.Filter
	Stage      DealStage
	PipelineID *uuid.UUID
	ContactID  *uuid.UUID
	MinValue   *decimal.Decimal
	MaxValue   *decimal.Decimal
}

// DealRepository provides company-scoped access to deals
type DealRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter DealFilter) ([]Deal, int64, error)
	Save(ctx context.Context, deal *Deal) error
	Update(ctx context.Context, deal *Deal) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error

	// SumValueByStage totals deal values per stage for dashboard aggregates
	SumValueByStage(ctx context.Context, companyID uuid.UUID) (map[DealStage]decimal.Decimal, error)
}

// PipelineRepository provides company-scoped access to pipelines
type PipelineRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Pipeline, error)
	FindDefaultForCompany(ctx context.Context, companyID uuid.UUID) (*Pipeline, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Pipeline, int64, error)
	Save(ctx context.Context, pipeline *Pipeline) error
	Update(ctx context.Context, pipeline *Pipeline) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
