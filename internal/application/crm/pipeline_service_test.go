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

func newPipelineService(t *testing.T) (*PipelineService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewPipelineService(
		persistence.NewGormPipelineRepository(env.db),
		env.audits(),
		zap.NewNop(),
	)
	return svc, env
}

func TestPipelineCreate(t *testing.T) {
	svc, _ := newPipelineService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	pipeline, err := svc.Create(ctx, companyID, userID, CreatePipelineInput{
		Name: "Renewals",
		Stages: []StageInput{
			{Name: "Outreach", Order: 0, Probability: 20},
			{Name: "Renewed", Order: 1, Probability: 100},
		},
	}, RequestInfo{})
	require.NoError(t, err)

	assert.False(t, pipeline.IsDefault, "created pipelines are never the default")
	stages, err := pipeline.StageList()
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "Outreach", stages[0].Name)
}

func TestPipelineUpdateStages(t *testing.T) {
	svc, _ := newPipelineService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	pipeline, err := svc.Create(ctx, companyID, userID, CreatePipelineInput{
		Name:   "Renewals",
		Stages: []StageInput{{Name: "Outreach", Probability: 20}},
	}, RequestInfo{})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, companyID, userID, pipeline.ID, UpdatePipelineInput{
		Stages: []StageInput{
			{Name: "Outreach", Order: 0, Probability: 25},
			{Name: "Negotiating", Order: 1, Probability: 60},
			{Name: "Renewed", Order: 2, Probability: 100},
		},
	}, RequestInfo{})
	require.NoError(t, err)

	stages, err := updated.StageList()
	require.NoError(t, err)
	assert.Len(t, stages, 3)
}

func TestPipelineDeleteDefaultRejected(t *testing.T) {
	svc, env := newPipelineService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	def, err := domain.NewDefaultPipeline(companyID)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(def).Error)

	err = svc.Delete(ctx, companyID, userID, def.ID, RequestInfo{})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DEFAULT_PIPELINE", domainErr.Code)

	// Still present
	_, err = svc.Get(ctx, companyID, def.ID)
	assert.NoError(t, err)
}

func TestPipelineDeleteCustom(t *testing.T) {
	svc, _ := newPipelineService(t)
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()

	pipeline, err := svc.Create(ctx, companyID, userID, CreatePipelineInput{
		Name:   "Short lived",
		Stages: []StageInput{{Name: "Only", Probability: 50}},
	}, RequestInfo{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, companyID, userID, pipeline.ID, RequestInfo{}))
	_, err = svc.Get(ctx, companyID, pipeline.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
