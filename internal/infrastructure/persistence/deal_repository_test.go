package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDeal(t *testing.T, repo *GormDealRepository, companyID uuid.UUID, name string, value int64, stage crm.DealStage) *crm.Deal {
	t.Helper()
	deal, err := crm.NewDeal(companyID, uuid.New(), uuid.New(), uuid.New(), name, decimal.NewFromInt(value))
	require.NoError(t, err)
	require.NoError(t, deal.MoveStage(stage, "", nil))
	require.NoError(t, repo.Save(context.Background(), deal))
	return deal
}

func TestGormDealRepository_TenantIsolation(t *testing.T) {
	repo := NewGormDealRepository(newTestDB(t))
	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()

	deal := seedDeal(t, repo, companyA, "Enterprise license", 50000, crm.DealStageProposal)
	seedDeal(t, repo, companyB, "Other tenant deal", 100, crm.DealStageProspecting)

	found, err := repo.FindByIDForCompany(ctx, companyA, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enterprise license", found.Name)

	_, err = repo.FindByIDForCompany(ctx, companyB, deal.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	deals, total, err := repo.FindAllForCompany(ctx, companyA, crm.DealFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, deals, 1)
	assert.Equal(t, companyA, deals[0].CompanyID)
}

func TestGormDealRepository_Filters(t *testing.T) {
	repo := NewGormDealRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	seedDeal(t, repo, companyID, "Small deal", 500, crm.DealStageProspecting)
	seedDeal(t, repo, companyID, "Mid deal", 5000, crm.DealStageProposal)
	seedDeal(t, repo, companyID, "Big deal", 50000, crm.DealStageProposal)

	t.Run("stage filter", func(t *testing.T) {
		filter := crm.DealFilter{Filter: shared.DefaultFilter(), Stage: crm.DealStageProposal}
		_, total, err := repo.FindAllForCompany(ctx, companyID, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("value range filter", func(t *testing.T) {
		min := decimal.NewFromInt(1000)
		max := decimal.NewFromInt(10000)
		filter := crm.DealFilter{Filter: shared.DefaultFilter(), MinValue: &min, MaxValue: &max}
		deals, total, err := repo.FindAllForCompany(ctx, companyID, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, deals, 1)
		assert.Equal(t, "Mid deal", deals[0].Name)
	})

	t.Run("search matches name", func(t *testing.T) {
		filter := crm.DealFilter{Filter: shared.DefaultFilter()}
		filter.Search = "big"
		_, total, err := repo.FindAllForCompany(ctx, companyID, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})
}

func TestGormDealRepository_SumValueByStage(t *testing.T) {
	repo := NewGormDealRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	seedDeal(t, repo, companyID, "Won one", 1000, crm.DealStageClosedWon)
	seedDeal(t, repo, companyID, "Won two", 2500, crm.DealStageClosedWon)
	seedDeal(t, repo, companyID, "Open", 400, crm.DealStageProposal)
	seedDeal(t, repo, uuid.New(), "Other tenant", 99999, crm.DealStageClosedWon)

	totals, err := repo.SumValueByStage(ctx, companyID)
	require.NoError(t, err)

	assert.True(t, totals[crm.DealStageClosedWon].Equal(decimal.NewFromInt(3500)),
		"got %s", totals[crm.DealStageClosedWon])
	assert.True(t, totals[crm.DealStageProposal].Equal(decimal.NewFromInt(400)))
	_, hasLost := totals[crm.DealStageClosedLost]
	assert.False(t, hasLost)
}
