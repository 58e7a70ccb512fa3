package crm

import (
	"context"
	"testing"

	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNotificationService(t *testing.T) (*NotificationService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewNotificationService(persistence.NewGormNotificationRepository(env.db), zap.NewNop())
	return svc, env
}

func seedNotification(t *testing.T, env *testEnv, companyID, userID uuid.UUID, title string) *domain.Notification {
	t.Helper()
	n, err := domain.NewNotification(companyID, userID, domain.NotificationMention, title, "You were mentioned", "")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(n).Error)
	return n
}

func TestNotificationListScopedToRecipient(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()
	companyID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	seedNotification(t, env, companyID, alice, "for alice")
	seedNotification(t, env, companyID, bob, "for bob")

	page, err := svc.List(ctx, companyID, alice, shared.DefaultFilter())
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "for alice", page.Items[0].Title)
}

func TestNotificationMarkRead(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	n := seedNotification(t, env, companyID, userID, "unread")

	read, err := svc.MarkRead(ctx, companyID, userID, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	t.Run("marking again keeps the original read time", func(t *testing.T) {
		again, err := svc.MarkRead(ctx, companyID, userID, n.ID)
		require.NoError(t, err)
		assert.True(t, again.IsRead)
		require.NotNil(t, again.ReadAt)
		assert.True(t, again.ReadAt.Equal(firstReadAt))
	})

	t.Run("another user's notification is not found", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, companyID, uuid.New(), n.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
