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

// GormEmailRepository implements crm.EmailRepository using GORM
type GormEmailRepository struct {
	db *gorm.DB
}

// NewGormEmailRepository creates a new GormEmailRepository
func NewGormEmailRepository(db *gorm.DB) *GormEmailRepository {
	return &GormEmailRepository{db: db}
}

// FindByIDForCompany finds an email record by ID within a company
func (r *GormEmailRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Email, error) {
	var email crm.Email
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &email, nil
}

// FindAllForCompany lists email records for a company with total count
func (r *GormEmailRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]crm.Email, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Email{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(subject) LIKE ?", pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if contactID, ok := filter.Filters["contact_id"]; ok {
		query = query.Where("contact_id = ?", contactID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emails []crm.Email
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&emails).Error; err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}

// Save creates an email record
func (r *GormEmailRepository) Save(ctx context.Context, email *crm.Email) error {
	return r.db.WithContext(ctx).Create(email).Error
}

// Update persists changes to an existing email record
func (r *GormEmailRepository) Update(ctx context.Context, email *crm.Email) error {
	return r.db.WithContext(ctx).Save(email).Error
}

// DeleteForCompany deletes an email record within a company
func (r *GormEmailRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Email{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormEmailRepository implements EmailRepository
var _ crm.EmailRepository = (*GormEmailRepository)(nil)
