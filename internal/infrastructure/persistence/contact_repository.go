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

// GormContactRepository implements crm.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForCompany finds a contact by ID within a company.
// A contact belonging to another company is reported as not found, never as
// a permission error, so existence does not leak across tenants.
func (r *GormContactRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Contact, error) {
	var contact crm.Contact
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindAllForCompany lists contacts for a company with total count
func (r *GormContactRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter crm.ContactFilter) ([]crm.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Contact{}).Where("company_id = ?", companyID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []crm.Contact
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Save creates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *crm.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// Update persists changes to an existing contact
func (r *GormContactRepository) Update(ctx context.Context, contact *crm.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// DeleteForCompany deletes a contact within a company
func (r *GormContactRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Contact{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormContactRepository) applyFilter(query *gorm.DB, filter crm.ContactFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LeadSource != "" {
		query = query.Where("lead_source = ?", filter.LeadSource)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

// Ensure GormContactRepository implements ContactRepository
var _ crm.ContactRepository = (*GormContactRepository)(nil)
