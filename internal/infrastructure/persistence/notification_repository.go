package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements crm.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForUser finds a notification by ID belonging to one user.
// Notifications are scoped to both company and recipient.
func (r *GormNotificationRepository) FindByIDForUser(ctx context.Context, companyID, userID, id uuid.UUID) (*crm.Notification, error) {
	var notification crm.Notification
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND id = ?", companyID, userID, id).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindAllForUser lists a user's notifications, newest first
func (r *GormNotificationRepository) FindAllForUser(ctx context.Context, companyID, userID uuid.UUID, filter shared.Filter) ([]crm.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&crm.Notification{}).
		Where("company_id = ? AND user_id = ?", companyID, userID)

	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []crm.Notification
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// Save creates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *crm.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// Update persists changes to an existing notification
func (r *GormNotificationRepository) Update(ctx context.Context, notification *crm.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ crm.NotificationRepository = (*GormNotificationRepository)(nil)
