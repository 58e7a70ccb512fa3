package crm

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Audit actions recorded against entities
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditLog is an append-only record of a mutation performed by a user.
// Audit logs are never updated or deleted through the API.
type AuditLog struct {
	shared.TenantEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Changes    string    `gorm:"type:jsonb;default:'{}'" json:"changes,omitempty"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string    `gorm:"type:varchar(500)" json:"user_agent,omitempty"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog records an action taken by userID against an entity
func NewAuditLog(companyID, userID uuid.UUID, action, entityType string, entityID uuid.UUID) *AuditLog {
	return &AuditLog{
		TenantEntity: shared.NewTenantEntity(companyID),
		UserID:       userID,
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		Changes:      "{}",
	}
}

// WithRequestInfo attaches the caller's network details
func (a *AuditLog) WithRequestInfo(ip, userAgent string) *AuditLog {
	a.IPAddress = ip
	a.UserAgent = userAgent
	return a
}
