package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TenantEntity extends BaseEntity with multi-tenant support.
// The tenant is the Company: every tenant-scoped read and write must be
// filtered by CompanyID, not just checked at the HTTP edge.
type TenantEntity struct {
	BaseEntity
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
}

// NewTenantEntity creates a new tenant-scoped entity
func NewTenantEntity(companyID uuid.UUID) TenantEntity {
	return TenantEntity{
		BaseEntity: NewBaseEntity(),
		CompanyID:  companyID,
	}
}

// NewTenantEntityWithCreator creates a new tenant-scoped entity with creator info
func NewTenantEntityWithCreator(companyID, createdBy uuid.UUID) TenantEntity {
	return TenantEntity{
		BaseEntity: NewBaseEntity(),
		CompanyID:  companyID,
		CreatedBy:  &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (t *TenantEntity) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}
