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

func TestGormPipelineRepository_FindDefaultForCompany(t *testing.T) {
	repo := NewGormPipelineRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	def, err := crm.NewDefaultPipeline(companyID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, def))

	custom, err := crm.NewPipeline(companyID, "Upsell", "", crm.DefaultStages(), false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, custom))

	found, err := repo.FindDefaultForCompany(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, found.ID)
	assert.True(t, found.IsDefault)

	stages, err := found.StageList()
	require.NoError(t, err)
	require.Len(t, stages, 6)
	assert.Equal(t, "Prospecting", stages[0].Name)
	assert.Equal(t, 10, stages[0].Probability)

	_, err = repo.FindDefaultForCompany(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPipelineRepository_ListOrdersDefaultFirst(t *testing.T) {
	repo := NewGormPipelineRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	custom, err := crm.NewPipeline(companyID, "Upsell", "", crm.DefaultStages(), false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, custom))

	def, err := crm.NewDefaultPipeline(companyID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, def))

	pipelines, total, err := repo.FindAllForCompany(ctx, companyID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, pipelines, 2)
	assert.True(t, pipelines[0].IsDefault)
}
