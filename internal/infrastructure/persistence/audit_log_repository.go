package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements crm.AuditLogRepository using GORM.
// The table is append-only: there is deliberately no update or delete.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Save appends an audit log entry
func (r *GormAuditLogRepository) Save(ctx context.Context, log *crm.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindAllForCompany lists audit entries for a company, newest first
func (r *GormAuditLogRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]crm.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.AuditLog{}).Where("company_id = ?", companyID)

	if entityType, ok := filter.Filters["entity_type"]; ok {
		query = query.Where("entity_type = ?", entityType)
	}
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []crm.AuditLog
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Ensure GormAuditLogRepository implements AuditLogRepository
var _ crm.AuditLogRepository = (*GormAuditLogRepository)(nil)
