package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/crm"
	domain "github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}, &domain.User{}, &crm.Pipeline{}))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "auth-service-test",
		AccessTokenExpiration:  168 * time.Hour,
		RefreshTokenExpiration: 720 * time.Hour,
		Issuer:                 "crm-backend",
	})

	svc := NewAuthService(
		persistence.NewGormUserRepository(db),
		persistence.NewGormCompanyRepository(db),
		persistence.NewGormRegistrar(&persistence.Database{DB: db}),
		jwtService,
		zap.NewNop(),
	)
	return svc, db
}

func registerAcme(t *testing.T, svc *AuthService) *AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Acme Inc",
		Name:        "Alice Admin",
		Email:       "alice@acme.test",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)
	return result
}

func TestRegister(t *testing.T) {
	svc, db := newAuthService(t)

	result := registerAcme(t, svc)

	assert.Equal(t, "Acme Inc", result.Company.Name)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.Equal(t, result.Company.ID, result.User.CompanyID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	// Registration seeds the default pipeline
	var pipeline crm.Pipeline
	require.NoError(t, db.Where("company_id = ? AND is_default = ?", result.Company.ID, true).First(&pipeline).Error)
	stages, err := pipeline.StageList()
	require.NoError(t, err)
	require.Len(t, stages, 6)
	assert.Equal(t, "Prospecting", stages[0].Name)
	assert.Equal(t, "Closed Lost", stages[5].Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, db := newAuthService(t)
	registerAcme(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Other Corp",
		Name:        "Impostor",
		Email:       "alice@acme.test",
		Password:    "different-pass",
	})
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)

	// The losing registration leaves nothing behind
	var companyCount int64
	require.NoError(t, db.Model(&domain.Company{}).Count(&companyCount).Error)
	assert.EqualValues(t, 1, companyCount)
}

// brokenRegistrar fails every registration with the given error
type brokenRegistrar struct {
	err error
}

func (r brokenRegistrar) Register(context.Context, *domain.Company, *crm.Pipeline, *domain.User) error {
	return r.err
}

func TestRegisterStoreFailure(t *testing.T) {
	svc, db := newAuthService(t)

	t.Run("store outage surfaces as internal, not duplicate email", func(t *testing.T) {
		svc.registrar = brokenRegistrar{err: errors.New("connection refused")}

		_, err := svc.Register(context.Background(), RegisterInput{
			CompanyName: "Acme Inc",
			Name:        "Alice Admin",
			Email:       "alice@acme.test",
			Password:    "s3cret-pass",
		})
		assert.ErrorIs(t, err, shared.ErrInternal)
		assert.NotErrorIs(t, err, shared.ErrDuplicateEmail)
	})

	t.Run("unique index race still reads as duplicate email", func(t *testing.T) {
		svc.registrar = brokenRegistrar{err: shared.ErrDuplicateEmail}

		_, err := svc.Register(context.Background(), RegisterInput{
			CompanyName: "Acme Inc",
			Name:        "Alice Admin",
			Email:       "alice@acme.test",
			Password:    "s3cret-pass",
		})
		assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
	})

	// Nothing was persisted on either path
	var companyCount int64
	require.NoError(t, db.Model(&domain.Company{}).Count(&companyCount).Error)
	assert.Zero(t, companyCount)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	registerAcme(t, svc)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginInput{Email: "alice@acme.test", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "alice@acme.test", result.User.Email)
		assert.NotNil(t, result.User.LastLoginAt)
		assert.NotNil(t, result.Company)
		assert.NotEmpty(t, result.Tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "alice@acme.test", Password: "wrong"})
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "nobody@acme.test", Password: "whatever"})
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, db := newAuthService(t)
	result := registerAcme(t, svc)

	result.User.Deactivate()
	require.NoError(t, db.Save(result.User).Error)

	_, err := svc.Login(context.Background(), LoginInput{Email: "alice@acme.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, shared.ErrAccountInactive)
}

func TestRefreshToken(t *testing.T) {
	svc, db := newAuthService(t)
	result := registerAcme(t, svc)
	ctx := context.Background()

	t.Run("valid refresh token issues a new pair", func(t *testing.T) {
		refreshed, err := svc.RefreshToken(ctx, RefreshInput{RefreshToken: result.Tokens.RefreshToken})
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, refreshed.User.ID)
		assert.NotEmpty(t, refreshed.Tokens.AccessToken)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, RefreshInput{RefreshToken: result.Tokens.AccessToken})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		result.User.Deactivate()
		require.NoError(t, db.Save(result.User).Error)

		_, err := svc.RefreshToken(ctx, RefreshInput{RefreshToken: result.Tokens.RefreshToken})
		assert.ErrorIs(t, err, shared.ErrAccountInactive)
	})
}

func TestUpdateSession(t *testing.T) {
	svc, _ := newAuthService(t)
	result := registerAcme(t, svc)
	ctx := context.Background()

	newName := "Alice A."
	updated, err := svc.UpdateSession(ctx, result.User.ID, result.Tokens.AccessToken, auth.SessionUpdate{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.User.Name)
	assert.NotEmpty(t, updated.AccessToken)

	// The stored profile reflects the change
	me, err := svc.Me(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", me.Name)
}

func TestListUsers(t *testing.T) {
	svc, _ := newAuthService(t)
	result := registerAcme(t, svc)

	page, err := svc.ListUsers(context.Background(), result.Company.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice@acme.test", page.Items[0].Email)
	assert.Equal(t, 1, page.TotalPages)
}
