package crm

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Note is a free-form annotation attached to a contact, deal or activity
type Note struct {
	shared.TenantEntity
	Content    string     `gorm:"type:text;not null" json:"content"`
	ContactID  *uuid.UUID `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	DealID     *uuid.UUID `gorm:"type:uuid;index" json:"deal_id,omitempty"`
	ActivityID *uuid.UUID `gorm:"type:uuid;index" json:"activity_id,omitempty"`
	IsPinned   bool       `gorm:"not null;default:false" json:"is_pinned"`
}

// TableName returns the table name for GORM
func (Note) TableName() string {
	return "notes"
}

// NewNote creates a note authored by createdBy
func NewNote(companyID, createdBy uuid.UUID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Note content is required")
	}
	return &Note{
		TenantEntity: shared.NewTenantEntityWithCreator(companyID, createdBy),
		Content:      content,
	}, nil
}

// Pin marks the note pinned
func (n *Note) Pin() { n.IsPinned = true }

// Unpin clears the pinned flag
func (n *Note) Unpin() { n.IsPinned = false }
