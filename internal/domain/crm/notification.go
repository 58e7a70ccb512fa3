package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationDealAssigned     NotificationType = "deal_assigned"
	NotificationTaskDue          NotificationType = "task_due"
	NotificationMention          NotificationType = "mention"
	NotificationActivityReminder NotificationType = "activity_reminder"
)

// Notification is an in-app message addressed to a single user
type Notification struct {
	shared.TenantEntity
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title   string           `gorm:"type:varchar(255);not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Link    string           `gorm:"type:varchar(500)" json:"link,omitempty"`
	IsRead  bool             `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt  *time.Time       `json:"read_at,omitempty"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification for userID
func NewNotification(companyID, userID uuid.UUID, notifType NotificationType, title, message, link string) (*Notification, error) {
	if title == "" || message == "" {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION", "Title and message are required")
	}
	return &Notification{
		TenantEntity: shared.NewTenantEntity(companyID),
		UserID:       userID,
		Type:         notifType,
		Title:        title,
		Message:      message,
		Link:         link,
	}, nil
}

// MarkRead records that the user has seen the notification
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}
