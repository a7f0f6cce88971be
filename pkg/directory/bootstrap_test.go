package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := AdminBootstrapConfig{
		AdminLogin:    "admin",
		AdminPassword: "admin123",
		AdminName:     "DefaultAdmin",
	}

	t.Run("CreatesAdminOnFirstRun", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		require.NoError(t, EnsureDefaultAdmin(ctx, repo, NewBcryptHasher(), cfg))

		admin, err := repo.GetUserByLogin(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, admin.Admin)
		assert.Equal(t, SystemIdentity, admin.CreatedBy)
		assert.Equal(t, GenderUnknown, admin.Gender)
		assert.True(t, admin.IsActive())
	})

	t.Run("SecondRunIsNoOp", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		require.NoError(t, EnsureDefaultAdmin(ctx, repo, NewBcryptHasher(), cfg))

		admin, err := repo.GetUserByLogin(ctx, "admin")
		require.NoError(t, err)

		require.NoError(t, EnsureDefaultAdmin(ctx, repo, NewBcryptHasher(), cfg))
		again, err := repo.GetUserByLogin(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, again.ID)
		assert.Equal(t, admin.PasswordHash, again.PasswordHash)
	})

	t.Run("MissingCredentialsRejected", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		err := EnsureDefaultAdmin(ctx, repo, NewBcryptHasher(), AdminBootstrapConfig{AdminLogin: "admin"})
		assert.Error(t, err)
	})

	t.Run("BootstrappedAdminCanAuthenticate", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		require.NoError(t, EnsureDefaultAdmin(ctx, repo, NewBcryptHasher(), cfg))

		svc := NewUserService(repo, NewBcryptHasher())
		res, err := svc.AuthenticateSelf(ctx, "admin", "admin123")
		require.NoError(t, err)
		assert.True(t, res.Ok())
	})
}
