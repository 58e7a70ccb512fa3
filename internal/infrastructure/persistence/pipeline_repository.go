package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPipelineRepository implements crm.PipelineRepository using GORM
type GormPipelineRepository struct {
	db *gorm.DB
}

// NewGormPipelineRepository creates a new GormPipelineRepository
func NewGormPipelineRepository(db *gorm.DB) *GormPipelineRepository {
	return &GormPipelineRepository{db: db}
}

// FindByIDForCompany finds a pipeline by ID within a company
func (r *GormPipelineRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Pipeline, error) {
	var pipeline crm.Pipeline
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&pipeline).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pipeline, nil
}

// FindDefaultForCompany returns the company's default pipeline
func (r *GormPipelineRepository) FindDefaultForCompany(ctx context.Context, companyID uuid.UUID) (*crm.Pipeline, error) {
	var pipeline crm.Pipeline
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_default = ?", companyID, true).
		First(&pipeline).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pipeline, nil
}

// FindAllForCompany lists pipelines for a company with total count
func (r *GormPipelineRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]crm.Pipeline, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Pipeline{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pipelines []crm.Pipeline
	if err := query.
		Order("is_default DESC, created_at ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&pipelines).Error; err != nil {
		return nil, 0, err
	}
	return pipelines, total, nil
}

// Save creates a pipeline
func (r *GormPipelineRepository) Save(ctx context.Context, pipeline *crm.Pipeline) error {
	return r.db.WithContext(ctx).Create(pipeline).Error
}

// Update persists changes to an existing pipeline
func (r *GormPipelineRepository) Update(ctx context.Context, pipeline *crm.Pipeline) error {
	return r.db.WithContext(ctx).Save(pipeline).Error
}

// DeleteForCompany deletes a pipeline within a company
func (r *GormPipelineRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Pipeline{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPipelineRepository implements PipelineRepository
var _ crm.PipelineRepository = (*GormPipelineRepository)(nil)
