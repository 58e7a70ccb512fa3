package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrationRecords(t *testing.T, email string) (*identity.Company, *crm.Pipeline, *identity.User) {
	t.Helper()
	company, err := identity.NewCompany("Acme Inc")
	require.NoError(t, err)
	pipeline, err := crm.NewDefaultPipeline(company.ID)
	require.NoError(t, err)
	admin, err := identity.NewUser(company.ID, "Alice Admin", email, "s3cret-pass", identity.RoleAdmin)
	require.NoError(t, err)
	return company, pipeline, admin
}

func TestGormRegistrar_CreatesAllRecords(t *testing.T) {
	db := newTestDB(t)
	registrar := NewGormRegistrar(&Database{DB: db})
	ctx := context.Background()

	company, pipeline, admin := registrationRecords(t, "alice@acme.test")
	require.NoError(t, registrar.Register(ctx, company, pipeline, admin))

	foundCompany, err := NewGormCompanyRepository(db).FindByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", foundCompany.Name)

	foundPipeline, err := NewGormPipelineRepository(db).FindDefaultForCompany(ctx, company.ID)
	require.NoError(t, err)
	stages, err := foundPipeline.StageList()
	require.NoError(t, err)
	assert.Len(t, stages, 6)

	foundUser, err := NewGormUserRepository(db).FindByEmail(ctx, "alice@acme.test")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, foundUser.Role)
	assert.Equal(t, company.ID, foundUser.CompanyID)
}

func TestGormRegistrar_RollsBackOnUserConflict(t *testing.T) {
	db := newTestDB(t)
	registrar := NewGormRegistrar(&Database{DB: db})
	ctx := context.Background()

	first, firstPipeline, firstAdmin := registrationRecords(t, "taken@acme.test")
	require.NoError(t, registrar.Register(ctx, first, firstPipeline, firstAdmin))

	// Second registration reuses the email; the unique index rejects the
	// user insert and the company and pipeline must roll back with it
	second, secondPipeline, secondAdmin := registrationRecords(t, "taken@acme.test")
	err := registrar.Register(ctx, second, secondPipeline, secondAdmin)
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)

	var companyCount int64
	require.NoError(t, db.Model(&identity.Company{}).Count(&companyCount).Error)
	assert.EqualValues(t, 1, companyCount)

	var pipelineCount int64
	require.NoError(t, db.Model(&crm.Pipeline{}).Count(&pipelineCount).Error)
	assert.EqualValues(t, 1, pipelineCount)

	var userCount int64
	require.NoError(t, db.Model(&identity.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)
}
