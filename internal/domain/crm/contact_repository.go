package crm

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactFilter narrows contact list queries. Search matches first name,
// last name, email and company name case-insensitively.
type ContactFilter struct {
	shared.Filter
	Status     ContactStatus
	LeadSource LeadSource
}

// ContactRepository provides company-scoped access to contacts
type ContactRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Contact, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ContactFilter) ([]Contact, int64, error)
	Save(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
