package crm

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityType represents the kind of interaction logged
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeTask    ActivityType = "task"
	ActivityTypeNote    ActivityType = "note"
	ActivityTypeDemo    ActivityType = "demo"
)

// IsValid reports whether the activity type is known
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting,
		ActivityTypeTask, ActivityTypeNote, ActivityTypeDemo:
		return true
	}
	return false
}

// ActivityStatus represents the lifecycle of an activity
type ActivityStatus string

const (
	ActivityStatusPending   ActivityStatus = "pending"
	ActivityStatusCompleted ActivityStatus = "completed"
	ActivityStatusCancelled ActivityStatus = "cancelled"
)

// Activity represents a logged interaction with a contact or deal
type Activity struct {
	shared.TenantEntity
	Type        ActivityType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Subject     string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	ContactID   *uuid.UUID     `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	DealID      *uuid.UUID     `gorm:"type:uuid;index" json:"deal_id,omitempty"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Status      ActivityStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Duration    int            `json:"duration,omitempty"`
	Outcome     string         `gorm:"type:text" json:"outcome,omitempty"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

// NewActivity creates a pending activity
func NewActivity(companyID, ownerID, createdBy uuid.UUID, activityType ActivityType, subject string) (*Activity, error) {
	if !activityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown activity type")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject is required")
	}

	return &Activity{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, createdBy),
		Type:         activityType,
		Subject:      strings.TrimSpace(subject),
		OwnerID:      ownerID,
		Status:       ActivityStatusPending,
	}, nil
}

// Complete marks the activity done with an optional outcome
func (a *Activity) Complete(outcome string) {
	now := time.Now()
	a.Status = ActivityStatusCompleted
	a.CompletedAt = &now
	if outcome != "" {
		a.Outcome = outcome
	}
}

// Cancel marks the activity cancelled
func (a *Activity) Cancel() {
	a.Status = ActivityStatusCancelled
}
