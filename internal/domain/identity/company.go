package identity

import (
	"github.com/crm/backend/internal/domain/shared"
)

// SubscriptionTier represents the company's plan
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// CompanySize buckets a company's headcount
type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// Company is the tenant: the unit of data isolation. Every tenant-scoped
// record carries the company's ID and is only ever read or written through
// a company-filtered query.
type Company struct {
	shared.BaseEntity
	Name             string           `gorm:"type:varchar(200);not null" json:"name"`
	Domain           string           `gorm:"type:varchar(255)" json:"domain,omitempty"`
	LogoURL          string           `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	Industry         string           `gorm:"type:varchar(100)" json:"industry,omitempty"`
	Size             CompanySize      `gorm:"type:varchar(20)" json:"size,omitempty"`
	SubscriptionTier SubscriptionTier `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_tier"`
	Settings         string           `gorm:"type:jsonb;default:'{}'" json:"settings,omitempty"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company on the free tier
func NewCompany(name string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name is required")
	}
	return &Company{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		SubscriptionTier: TierFree,
		Settings:         "{}",
	}, nil
}
