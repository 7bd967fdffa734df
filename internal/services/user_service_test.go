// filepath: internal/services/user_service_test.go
package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialocker/internal/config"
	"medialocker/internal/models"
	"medialocker/internal/shared"
)

func TestRegisterAndVerify(t *testing.T) {
	env := setupServices(t)

	user, err := env.Users.Register("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role, "public registration never grants Admin")

	verified, err := env.Users.Verify("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, err = env.Users.Verify("alice", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegister_RequiresFields(t *testing.T) {
	env := setupServices(t)

	_, err := env.Users.Register("", "password123")
	assert.Error(t, err)
	_, err = env.Users.Register("alice", "")
	assert.Error(t, err)
}

func TestListUsers_AdminOnly(t *testing.T) {
	env := setupServices(t)
	_, userClaims := registerUser(t, env, "alice")
	_, adminClaims := registerAdmin(t, env, "root")

	_, _, err := env.Users.ListUsers(userClaims, 1, 20)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	users, total, err := env.Users.ListUsers(adminClaims, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

func TestChangeRole(t *testing.T) {
	env := setupServices(t)
	alice, _ := registerUser(t, env, "alice")
	admin, adminClaims := registerAdmin(t, env, "root")

	t.Run("admin promotes another user", func(t *testing.T) {
		updated, err := env.Users.ChangeRole(adminClaims, alice.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := env.Users.ChangeRole(adminClaims, alice.ID, "Superuser")
		assert.ErrorIs(t, err, shared.ErrInvalidRole)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		_, err := env.Users.ChangeRole(adminClaims, admin.ID, models.RoleUser)
		assert.ErrorIs(t, err, shared.ErrSelfProtection)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		bob, bobClaims := registerUser(t, env, "bob")
		_, err := env.Users.ChangeRole(bobClaims, bob.ID, models.RoleAdmin)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := env.Users.ChangeRole(adminClaims, 99999, models.RoleUser)
		assert.ErrorIs(t, err, shared.ErrUserNotFound)
	})
}

func TestResetPassword(t *testing.T) {
	env := setupServices(t)
	alice, _ := registerUser(t, env, "alice")
	_, adminClaims := registerAdmin(t, env, "root")

	require.NoError(t, env.Users.ResetPassword(adminClaims, alice.ID, "changed456"))

	_, err := env.Users.Verify("alice", "password123")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = env.Users.Verify("alice", "changed456")
	assert.NoError(t, err)

	assert.Error(t, env.Users.ResetPassword(adminClaims, alice.ID, ""))
}

func TestDeleteAccount(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	alice, aliceClaims := registerUser(t, env, "alice")
	admin, adminClaims := registerAdmin(t, env, "root")

	img, err := env.Images.Upload(aliceClaims, bytes.NewReader([]byte("content")), "pic.png")
	require.NoError(t, err)

	t.Run("admin cannot delete own account", func(t *testing.T) {
		err := env.Users.DeleteAccount(ctx, adminClaims, admin.ID)
		assert.ErrorIs(t, err, shared.ErrSelfProtection)
	})

	t.Run("cascade removes rows and files", func(t *testing.T) {
		require.NoError(t, env.Users.DeleteAccount(ctx, adminClaims, alice.ID))

		_, err := env.Users.GetUserByID(alice.ID)
		assert.ErrorIs(t, err, shared.ErrUserNotFound)

		_, err = env.Repo.GetImage(img.ID)
		assert.ErrorIs(t, err, shared.ErrImageNotFound)

		rc, err := env.Store.Open(img.StoredPath)
		require.NoError(t, err)
		assert.Nil(t, rc, "stored file should be gone")
	})
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("creates admin on empty database", func(t *testing.T) {
		env := setupServices(t)
		cfg := &config.Config{AdminPassword: "bootstrap1"}

		require.NoError(t, env.Users.EnsureAdmin(cfg))

		admin, err := env.Users.Verify("admin", "bootstrap1")
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin())
	})

	t.Run("noop when an admin exists", func(t *testing.T) {
		env := setupServices(t)
		registerAdmin(t, env, "root")

		require.NoError(t, env.Users.EnsureAdmin(&config.Config{AdminPassword: "ignored"}))

		_, err := env.Users.Verify("admin", "ignored")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("reset flag updates the password", func(t *testing.T) {
		env := setupServices(t)
		require.NoError(t, env.Users.EnsureAdmin(&config.Config{AdminPassword: "first-pw"}))

		cfg := &config.Config{AdminPassword: "second-pw", ResetAdminPassword: true}
		require.NoError(t, env.Users.EnsureAdmin(cfg))

		_, err := env.Users.Verify("admin", "second-pw")
		assert.NoError(t, err)
	})
}
