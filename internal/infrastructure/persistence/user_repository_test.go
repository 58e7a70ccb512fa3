package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *GormUserRepository, companyID uuid.UUID, name, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(companyID, name, email, "s3cret-pass", role)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	seedUser(t, repo, companyID, "Admin", "admin@acme.test", identity.RoleAdmin)

	t.Run("finds regardless of case and whitespace", func(t *testing.T) {
		user, err := repo.FindByEmail(ctx, "  Admin@Acme.Test ")
		require.NoError(t, err)
		assert.Equal(t, "admin@acme.test", user.Email)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@acme.test")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, uuid.New(), "Admin", "admin@acme.test", identity.RoleAdmin)

	exists, err := repo.ExistsByEmail(ctx, "admin@acme.test")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "other@acme.test")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_FindAllForCompany(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()

	seedUser(t, repo, companyA, "Alice Admin", "alice@a.test", identity.RoleAdmin)
	seedUser(t, repo, companyA, "Sam Sales", "sam@a.test", identity.RoleSales)
	seedUser(t, repo, companyB, "Bob Boss", "bob@b.test", identity.RoleAdmin)

	t.Run("scoped to company", func(t *testing.T) {
		users, total, err := repo.FindAllForCompany(ctx, companyA, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, users, 2)
	})

	t.Run("role filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["role"] = string(identity.RoleSales)
		users, total, err := repo.FindAllForCompany(ctx, companyA, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, "Sam Sales", users[0].Name)
	})
}

func TestGormUserRepository_Update(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, uuid.New(), "Alice", "alice@a.test", identity.RoleAdmin)
	user.Deactivate()
	user.RecordLogin()
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.NotNil(t, found.LastLoginAt)
}
