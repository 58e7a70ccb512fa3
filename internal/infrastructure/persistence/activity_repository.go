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

// GormActivityRepository implements crm.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByIDForCompany finds an activity by ID within a company
func (r *GormActivityRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Activity, error) {
	var activity crm.Activity
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindAllForCompany lists activities for a company with total count
func (r *GormActivityRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter crm.ActivityFilter) ([]crm.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Activity{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(subject) LIKE ?", pattern)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.DealID != nil {
		query = query.Where("deal_id = ?", *filter.DealID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []crm.Activity
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Save creates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *crm.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// Update persists changes to an existing activity
func (r *GormActivityRepository) Update(ctx context.Context, activity *crm.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// DeleteForCompany deletes an activity within a company
func (r *GormActivityRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Activity{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormActivityRepository implements ActivityRepository
var _ crm.ActivityRepository = (*GormActivityRepository)(nil)
