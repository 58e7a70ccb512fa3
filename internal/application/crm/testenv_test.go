package crm

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires sqlite-backed repositories and a miniredis-backed cache
type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	cache *cache.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Contact{}, &domain.Deal{}, &domain.Pipeline{}, &domain.Activity{},
		&domain.Task{}, &domain.Note{}, &domain.Email{}, &domain.Notification{},
		&domain.AuditLog{}, &domain.Report{}, &domain.Integration{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return &testEnv{
		db:    db,
		mr:    mr,
		cache: cache.NewCache(client, zap.NewNop()),
	}
}

func (e *testEnv) audits() domain.AuditLogRepository {
	return persistence.NewGormAuditLogRepository(e.db)
}

func (e *testEnv) auditCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&domain.AuditLog{}).Count(&count).Error)
	return count
}
