package crm

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IntegrationProvider identifies a supported third-party provider.
// Provider OAuth flows live outside this system; only the connection
// record and its credentials are stored.
type IntegrationProvider string

const (
	IntegrationGoogle    IntegrationProvider = "google"
	IntegrationMicrosoft IntegrationProvider = "microsoft"
	IntegrationSlack     IntegrationProvider = "slack"
	IntegrationZapier    IntegrationProvider = "zapier"
)

// Integration represents a company's connection to an external provider
type Integration struct {
	shared.TenantEntity
	Provider    IntegrationProvider `gorm:"type:varchar(20);not null;index" json:"provider"`
	Credentials string              `gorm:"type:jsonb;default:'{}'" json:"-"`
	Settings    string              `gorm:"type:jsonb;default:'{}'" json:"settings,omitempty"`
	IsActive    bool                `gorm:"not null;default:true" json:"is_active"`
	LastSyncAt  *time.Time          `json:"last_sync_at,omitempty"`
}

// TableName returns the table name for GORM
func (Integration) TableName() string {
	return "integrations"
}

// NewIntegration connects a provider for a company
func NewIntegration(companyID uuid.UUID, provider IntegrationProvider, credentials string) (*Integration, error) {
	switch provider {
	case IntegrationGoogle, IntegrationMicrosoft, IntegrationSlack, IntegrationZapier:
	default:
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Unknown integration provider")
	}
	if credentials == "" {
		credentials = "{}"
	}
	return &Integration{
		TenantEntity: shared.NewTenantEntity(companyID),
		Provider:     provider,
		Credentials:  credentials,
		Settings:     "{}",
		IsActive:     true,
	}, nil
}

// RecordSync updates the last successful sync time
func (i *Integration) RecordSync() {
	now := time.Now()
	i.LastSyncAt = &now
}
