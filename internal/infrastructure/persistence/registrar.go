package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRegistrar creates the initial records of a new tenant in one
// transaction: the company, its default pipeline and the admin user.
// Either all three exist afterwards or none do.
type GormRegistrar struct {
	db *Database
}

// NewGormRegistrar creates a new GormRegistrar
func NewGormRegistrar(db *Database) *GormRegistrar {
	return &GormRegistrar{db: db}
}

// Register atomically persists a new company, its default pipeline and its
// first (admin) user
func (r *GormRegistrar) Register(ctx context.Context, company *identity.Company, pipeline *crm.Pipeline, admin *identity.User) error {
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		if err := tx.Create(pipeline).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
	// users.email is the only unique index these inserts can hit, so a
	// duplicated-key error means a concurrent registration won the race
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrDuplicateEmail
	}
	return err
}
