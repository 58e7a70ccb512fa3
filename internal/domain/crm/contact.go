package crm

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactStatus represents where a contact sits in the funnel
type ContactStatus string

const (
	ContactStatusLead     ContactStatus = "lead"
	ContactStatusProspect ContactStatus = "prospect"
	ContactStatusCustomer ContactStatus = "customer"
	ContactStatusInactive ContactStatus = "inactive"
)

// LeadSource represents how a contact was acquired
type LeadSource string

const (
	LeadSourceWebsite   LeadSource = "website"
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceColdCall  LeadSource = "cold_call"
	LeadSourceMarketing LeadSource = "marketing"
	LeadSourcePartner   LeadSource = "partner"
)

// Contact represents a person the company sells to or talks with
type Contact struct {
	shared.TenantEntity
	OwnerID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"owner_id"`
	FirstName      string        `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string        `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string        `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone          string        `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Title          string        `gorm:"type:varchar(100)" json:"title,omitempty"`
	Department     string        `gorm:"type:varchar(100)" json:"department,omitempty"`
	CompanyName    string        `gorm:"type:varchar(200)" json:"company_name,omitempty"`
	CompanyWebsite string        `gorm:"type:varchar(500)" json:"company_website,omitempty"`
	Status         ContactStatus `gorm:"type:varchar(20);not null;default:'lead';index" json:"status"`
	LeadSource     LeadSource    `gorm:"type:varchar(20);index" json:"lead_source,omitempty"`
	LeadScore      int           `gorm:"not null;default:0" json:"lead_score"`
	Tags           string        `gorm:"type:jsonb;default:'[]'" json:"tags,omitempty"`
	SocialProfiles string        `gorm:"type:jsonb;default:'{}'" json:"social_profiles,omitempty"`
	CustomFields   string        `gorm:"type:jsonb;default:'{}'" json:"custom_fields,omitempty"`
	LastContactAt  *time.Time    `json:"last_contact_at,omitempty"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new contact owned by ownerID
func NewContact(companyID, ownerID, createdBy uuid.UUID, firstName, lastName string) (*Contact, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, shared.NewDomainError("INVALID_FIRST_NAME", "First name is required")
	}
	if lastName == "" {
		return nil, shared.NewDomainError("INVALID_LAST_NAME", "Last name is required")
	}

	return &Contact{
		TenantEntity:   shared.NewTenantEntityWithCreator(companyID, createdBy),
		OwnerID:        ownerID,
		FirstName:      firstName,
		LastName:       lastName,
		Status:         ContactStatusLead,
		Tags:           "[]",
		SocialProfiles: "{}",
		CustomFields:   "{}",
	}, nil
}

// SetStatus changes the funnel status
func (c *Contact) SetStatus(status ContactStatus) error {
	switch status {
	case ContactStatusLead, ContactStatusProspect, ContactStatusCustomer, ContactStatusInactive:
		c.Status = status
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown contact status")
	}
}

// SetLeadScore sets the 0..100 lead score
func (c *Contact) SetLeadScore(score int) error {
	if score < 0 || score > 100 {
		return shared.NewDomainError("INVALID_LEAD_SCORE", "Lead score must be between 0 and 100")
	}
	c.LeadScore = score
	return nil
}

// Touch records that the contact was reached out to
func (c *Contact) Touch() {
	now := time.Now()
	c.LastContactAt = &now
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
