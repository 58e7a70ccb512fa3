package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService lets users read their own in-app notifications.
// Notifications are created by the other services, never through the API.
type NotificationService struct {
	notifications crm.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications crm.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns a page of the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, companyID, userID uuid.UUID, filter shared.Filter) (shared.Paginated[crm.Notification], error) {
	notifications, total, err := s.notifications.FindAllForUser(ctx, companyID, userID, filter)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return shared.Paginated[crm.Notification]{}, shared.ErrInternal
	}
	return shared.NewPaginated(notifications, total, filter.Page, filter.Limit), nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification is a no-op and keeps the original read time.
func (s *NotificationService) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) (*crm.Notification, error) {
	notification, err := s.notifications.FindByIDForUser(ctx, companyID, userID, id)
	if err != nil {
		return nil, err
	}
	if notification.IsRead {
		return notification, nil
	}
	notification.MarkRead()

	if err := s.notifications.Update(ctx, notification); err != nil {
		s.logger.Error("Failed to mark notification read", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return notification, nil
}
