// filepath: internal/services/service_test.go
package services_test

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"medialocker/internal/audit"
	"medialocker/internal/config"
	"medialocker/internal/db/migrations"
	"medialocker/internal/models"
	"medialocker/internal/repository"
	"medialocker/internal/services"
	"medialocker/internal/services/auth"
	"medialocker/internal/storage"
)

// testEnv bundles a real repository, a real on-disk store, and both
// services against them.
type testEnv struct {
	Repo   *repository.Repository
	Store  *storage.Store
	Users  services.UserService
	Images services.ImageService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_locker.db")
	repo, err := repository.NewRepository(&config.Config{
		Database: config.DatabaseConfig{Path: dbPath},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(repo.DB, "."))

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	auditor := audit.NewLoggerAuditor(false)
	return &testEnv{
		Repo:   repo,
		Store:  store,
		Users:  services.NewUserService(repo, store, auditor),
		Images: services.NewImageService(repo, store, auditor),
	}
}

// registerUser creates an account and returns it with matching claims,
// as if the user had just logged in.
func registerUser(t *testing.T, env *testEnv, username string) (*models.User, *auth.Claims) {
	t.Helper()
	user, err := env.Users.Register(username, "password123")
	require.NoError(t, err)
	return user, claimsOf(user)
}

// registerAdmin creates an Admin account directly in the repository.
func registerAdmin(t *testing.T, env *testEnv, username string) (*models.User, *auth.Claims) {
	t.Helper()
	user, err := env.Repo.CreateUser(username, "password123", models.RoleAdmin)
	require.NoError(t, err)
	return user, claimsOf(user)
}

func claimsOf(user *models.User) *auth.Claims {
	return &auth.Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(user.ID, 10),
		},
	}
}
