package crm

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmailStatus represents where an email is in its send lifecycle.
// Actual delivery is handled by an external provider; this system only
// tracks the record.
type EmailStatus string

const (
	EmailStatusDraft     EmailStatus = "draft"
	EmailStatusScheduled EmailStatus = "scheduled"
	EmailStatusSent      EmailStatus = "sent"
	EmailStatusFailed    EmailStatus = "failed"
)

// Email represents an outbound email tracked against a contact or deal
type Email struct {
	shared.TenantEntity
	FromUserID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToEmails    string      `gorm:"type:jsonb;not null;default:'[]'" json:"to_emails"`
	CcEmails    string      `gorm:"type:jsonb;default:'[]'" json:"cc_emails,omitempty"`
	BccEmails   string      `gorm:"type:jsonb;default:'[]'" json:"bcc_emails,omitempty"`
	Subject     string      `gorm:"type:varchar(500);not null" json:"subject"`
	BodyHTML    string      `gorm:"type:text;not null" json:"body_html"`
	BodyText    string      `gorm:"type:text" json:"body_text,omitempty"`
	ContactID   *uuid.UUID  `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	DealID      *uuid.UUID  `gorm:"type:uuid;index" json:"deal_id,omitempty"`
	Status      EmailStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty"`
	SentAt      *time.Time  `json:"sent_at,omitempty"`
	OpenedAt    *time.Time  `json:"opened_at,omitempty"`
}

// TableName returns the table name for GORM
func (Email) TableName() string {
	return "emails"
}

// NewEmail creates a draft email
func NewEmail(companyID, fromUserID uuid.UUID, toEmails, subject, bodyHTML string) (*Email, error) {
	if toEmails == "" || toEmails == "[]" {
		return nil, shared.NewDomainError("INVALID_RECIPIENTS", "At least one recipient is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject is required")
	}

	return &Email{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, fromUserID),
		FromUserID:   fromUserID,
		ToEmails:     toEmails,
		CcEmails:     "[]",
		BccEmails:    "[]",
		Subject:      subject,
		BodyHTML:     bodyHTML,
		Status:       EmailStatusDraft,
	}, nil
}

// Schedule queues the email for a future send
func (e *Email) Schedule(at time.Time) error {
	if e.Status == EmailStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Email has already been sent")
	}
	e.Status = EmailStatusScheduled
	e.ScheduledAt = &at
	return nil
}

// MarkSent records a successful send
func (e *Email) MarkSent() {
	now := time.Now()
	e.Status = EmailStatusSent
	e.SentAt = &now
}
