package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAuditLogRepository creates a GormAuditLogRepository with a mocked SQL connection
func newMockAuditLogRepository(t *testing.T) (*GormAuditLogRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAuditLogRepository(gormDB), mock, mockDB
}

func TestGormAuditLogRepository_Save(t *testing.T) {
	t.Run("appends an entry", func(t *testing.T) {
		repo, mock, mockDB := newMockAuditLogRepository(t)
		defer mockDB.Close()

		entry := crm.NewAuditLog(uuid.New(), uuid.New(), crm.AuditActionCreate, "contact", uuid.New()).
			WithRequestInfo("203.0.113.7", "curl/8.4")

		mock.ExpectExec(`INSERT INTO "audit_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockAuditLogRepository(t)
		defer mockDB.Close()

		entry := crm.NewAuditLog(uuid.New(), uuid.New(), crm.AuditActionDelete, "deal", uuid.New())

		mock.ExpectExec(`INSERT INTO "audit_logs"`).
			WillReturnError(sql.ErrConnDone)

		err := repo.Save(context.Background(), entry)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAuditLogRepository_FindAllForCompany(t *testing.T) {
	t.Run("scopes to the company and orders newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockAuditLogRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()
		entryID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE company_id = \$1`).
			WithArgs(companyID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "company_id", "user_id", "action", "entity_type", "entity_id", "changes"}).
			AddRow(entryID, companyID, uuid.New(), crm.AuditActionUpdate, "deal", uuid.New(), "{}")

		mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE company_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		logs, total, err := repo.FindAllForCompany(context.Background(), companyID, shared.Filter{Page: 1, Limit: 20})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, entryID, logs[0].ID)
		assert.Equal(t, "deal", logs[0].EntityType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies entity and actor filters", func(t *testing.T) {
		repo, mock, mockDB := newMockAuditLogRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE company_id = \$1 AND entity_type = \$2 AND user_id = \$3`).
			WithArgs(companyID, "contact", userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE company_id = \$1 AND entity_type = \$2 AND user_id = \$3 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		logs, total, err := repo.FindAllForCompany(context.Background(), companyID, shared.Filter{
			Page:  1,
			Limit: 20,
			Filters: map[string]any{
				"entity_type": "contact",
				"user_id":     userID,
			},
		})

		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
