package identity

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository provides access to user records.
// Lookups by email are global (emails are unique across tenants because they
// are the login credential); everything else is company-scoped.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// CompanyRepository provides access to company records
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Save(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
}
