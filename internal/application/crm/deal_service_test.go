package crm

import (
	"context"
	"testing"
	"time"

	domain "github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDealService(t *testing.T) (*DealService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewDealService(
		persistence.NewGormDealRepository(env.db),
		persistence.NewGormPipelineRepository(env.db),
		persistence.NewGormNotificationRepository(env.db),
		env.audits(),
		env.cache,
		5*time.Minute,
		zap.NewNop(),
	)
	return svc, env
}

func seedDefaultPipeline(t *testing.T, env *testEnv, companyID uuid.UUID) *domain.Pipeline {
	t.Helper()
	pipeline, err := domain.NewDefaultPipeline(companyID)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(pipeline).Error)
	return pipeline
}

func TestDealCreateUsesDefaultPipeline(t *testing.T) {
	svc, env := newDealService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()
	pipeline := seedDefaultPipeline(t, env, companyID)

	deal, err := svc.Create(ctx, companyID, userID, CreateDealInput{
		Name:  "Enterprise license",
		Value: "12500.50",
	}, RequestInfo{})
	require.NoError(t, err)

	assert.Equal(t, pipeline.ID, deal.PipelineID)
	assert.Equal(t, domain.DealStageProspecting, deal.Stage)
	assert.Equal(t, "12500.5", deal.Value.String())
	assert.Equal(t, userID, deal.OwnerID)
}

func TestDealCreateAssignmentNotifiesOwner(t *testing.T) {
	svc, env := newDealService(t)
	ctx := context.Background()
	companyID := uuid.New()
	creator := uuid.New()
	owner := uuid.New()
	seedDefaultPipeline(t, env, companyID)

	ownerID := owner.String()
	_, err := svc.Create(ctx, companyID, creator, CreateDealInput{
		Name:    "Handed-off deal",
		OwnerID: &ownerID,
	}, RequestInfo{})
	require.NoError(t, err)

	var notifications []domain.Notification
	require.NoError(t, env.db.Where("user_id = ?", owner).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationDealAssigned, notifications[0].Type)
	assert.False(t, notifications[0].IsRead)
}

func TestDealMoveStage(t *testing.T) {
	svc, env := newDealService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()
	seedDefaultPipeline(t, env, companyID)

	deal, err := svc.Create(ctx, companyID, userID, CreateDealInput{Name: "Stage walker"}, RequestInfo{})
	require.NoError(t, err)

	t.Run("probability comes from the pipeline stage", func(t *testing.T) {
		moved, err := svc.MoveStage(ctx, companyID, userID, deal.ID, MoveStageInput{
			Stage: string(domain.DealStageProposal),
		}, RequestInfo{})
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageProposal, moved.Stage)
		assert.Equal(t, 50, moved.Probability)
		assert.Nil(t, moved.ActualCloseDate)
	})

	t.Run("closing lost records the reason and the close date", func(t *testing.T) {
		moved, err := svc.MoveStage(ctx, companyID, userID, deal.ID, MoveStageInput{
			Stage:      string(domain.DealStageClosedLost),
			LostReason: "budget cut",
		}, RequestInfo{})
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageClosedLost, moved.Stage)
		assert.Equal(t, "budget cut", moved.LostReason)
		assert.NotNil(t, moved.ActualCloseDate)
	})

	t.Run("unknown stage is rejected", func(t *testing.T) {
		_, err := svc.MoveStage(ctx, companyID, userID, deal.ID, MoveStageInput{
			Stage: "limbo",
		}, RequestInfo{})
		assert.Error(t, err)
	})
}

func TestDealTenantIsolation(t *testing.T) {
	svc, env := newDealService(t)
	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()
	userID := uuid.New()
	seedDefaultPipeline(t, env, companyA)

	deal, err := svc.Create(ctx, companyA, userID, CreateDealInput{Name: "Private deal"}, RequestInfo{})
	require.NoError(t, err)

	// Another tenant cannot see or move the deal
	_, err = svc.Get(ctx, companyB, deal.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.MoveStage(ctx, companyB, userID, deal.ID, MoveStageInput{
		Stage: string(domain.DealStageProposal),
	}, RequestInfo{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDealWriteInvalidatesDashboard(t *testing.T) {
	svc, env := newDealService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()
	seedDefaultPipeline(t, env, companyID)

	statsKey := "dashboard:stats:" + companyID.String()
	require.NoError(t, env.mr.Set(statsKey, `{"stale":true}`))

	_, err := svc.Create(ctx, companyID, userID, CreateDealInput{Name: "Cache buster"}, RequestInfo{})
	require.NoError(t, err)

	assert.False(t, env.mr.Exists(statsKey), "deal writes drop the dashboard aggregates")
}
