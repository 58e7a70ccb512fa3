package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNotificationRepository_UserScoping(t *testing.T) {
	repo := NewGormNotificationRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	n, err := crm.NewNotification(companyID, userA, crm.NotificationTaskDue, "Task due", "Call Acme today", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, n))

	t.Run("recipient can read", func(t *testing.T) {
		found, err := repo.FindByIDForUser(ctx, companyID, userA, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "Task due", found.Title)
	})

	t.Run("another user cannot", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, companyID, userB, n.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unread filter", func(t *testing.T) {
		n.MarkRead()
		require.NoError(t, repo.Update(ctx, n))

		filter := shared.DefaultFilter()
		filter.Filters["unread"] = true
		_, total, err := repo.FindAllForUser(ctx, companyID, userA, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})
}
