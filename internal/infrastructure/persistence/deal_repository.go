package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDealRepository implements crm.DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByIDForCompany finds a deal by ID within a company
func (r *GormDealRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*crm.Deal, error) {
	var deal crm.Deal
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deal, nil
}

// FindAllForCompany lists deals for a company with total count
func (r *GormDealRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter crm.DealFilter) ([]crm.Deal, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Deal{}).Where("company_id = ?", companyID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []crm.Deal
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&deals).Error; err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

// Save creates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

// Update persists changes to an existing deal
func (r *GormDealRepository) Update(ctx context.Context, deal *crm.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

// DeleteForCompany deletes a deal within a company
func (r *GormDealRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&crm.Deal{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumValueByStage totals deal values per stage for dashboard aggregates
func (r *GormDealRepository) SumValueByStage(ctx context.Context, companyID uuid.UUID) (map[crm.DealStage]decimal.Decimal, error) {
	type row struct {
		Stage string
		Total decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&crm.Deal{}).
		Select("stage, COALESCE(SUM(value), 0) AS total").
		Where("company_id = ?", companyID).
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[crm.DealStage]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[crm.DealStage(r.Stage)] = r.Total
	}
	return totals, nil
}

func (r *GormDealRepository) applyFilter(query *gorm.DB, filter crm.DealFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.PipelineID != nil {
		query = query.Where("pipeline_id = ?", *filter.PipelineID)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.MinValue != nil {
		query = query.Where("value >= ?", *filter.MinValue)
	}
	if filter.MaxValue != nil {
		query = query.Where("value <= ?", *filter.MaxValue)
	}
	return query
}

// Ensure GormDealRepository implements DealRepository
var _ crm.DealRepository = (*GormDealRepository)(nil)
