package persistence

import (
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the full schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&identity.Company{},
		&identity.User{},
		&crm.Contact{},
		&crm.Pipeline{},
		&crm.Deal{},
		&crm.Activity{},
		&crm.Task{},
		&crm.Note{},
		&crm.Email{},
		&crm.Notification{},
		&crm.AuditLog{},
		&crm.Report{},
		&crm.Integration{},
	))
	return db
}
