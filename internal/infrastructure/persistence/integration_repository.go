package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntegrationRepository implements crm.IntegrationRepository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByIDForCompany finds an integration by ID within a company
func (r *GormIntegrationRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Integration, error) {
	var integration crm.Integration
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&integration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &integration, nil
}

// FindAllForCompany lists integrations for a company
func (r *GormIntegrationRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]crm.Integration, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Integration{}).Where("company_id = ?", companyID)

	if provider, ok := filter.Filters["provider"]; ok {
		query = query.Where("provider = ?", provider)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var integrations []crm.Integration
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&integrations).Error; err != nil {
		return nil, 0, err
	}
	return integrations, total, nil
}

// Save creates an integration
func (r *GormIntegrationRepository) Save(ctx context.Context, integration *crm.Integration) error {
	return r.db.WithContext(ctx).Create(integration).Error
}

// Update persists changes to an existing integration
func (r *GormIntegrationRepository) Update(ctx context.Context, integration *crm.Integration) error {
	return r.db.WithContext(ctx).Save(integration).Error
}

// DeleteForCompany deletes an integration within a company
func (r *GormIntegrationRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Integration{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormIntegrationRepository implements IntegrationRepository
var _ crm.IntegrationRepository = (*GormIntegrationRepository)(nil)
