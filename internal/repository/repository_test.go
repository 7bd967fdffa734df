// filepath: internal/repository/repository_test.go
package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"

	"medialocker/internal/config"
	"medialocker/internal/db/migrations"
	"medialocker/internal/models"
)

func applyTestMigrations(t *testing.T, repo *Repository) {
	t.Helper()
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(repo.DB, "."); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}
}

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_locker.db")

	dummyCfg := &config.Config{
		Database: config.DatabaseConfig{Path: dbPath},
	}

	repo, err := NewRepository(dummyCfg)
	if err != nil {
		t.Fatalf("Failed to create new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	applyTestMigrations(t, repo)
	return repo
}

// mustCreateUser is a test helper for seeding accounts.
func mustCreateUser(t *testing.T, repo *Repository, username, password, role string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(username, password, role)
	if err != nil {
		t.Fatalf("Failed to create user '%s': %v", username, err)
	}
	return user
}

// mustCreateImage is a test helper for seeding image metadata.
func mustCreateImage(t *testing.T, repo *Repository, ownerID int64, name, path string, size int64) *models.Image {
	t.Helper()
	img, err := repo.CreateImage(&models.Image{
		OriginalName: name,
		StoredPath:   path,
		SizeBytes:    size,
		OwnerID:      ownerID,
		UploadedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to create image '%s': %v", name, err)
	}
	return img
}

func TestNewRepository(t *testing.T) {
	repo := setupTestDB(t)
	tables := []string{"users", "images", "favourites"}
	for _, table := range tables {
		var name string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table '%s' was not created: %v", table, err)
		}
	}
}

func TestEnsureSchemaBootstrapped(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bootstrap.db")
	repo, err := NewRepository(&config.Config{Database: config.DatabaseConfig{Path: dbPath}})
	assert.NoError(t, err)
	defer repo.Close()

	// Fresh database: bootstrap applies migrations and validation passes.
	assert.Error(t, repo.ValidateSchema(), "unmigrated database should not validate")
	assert.NoError(t, repo.EnsureSchemaBootstrapped())
	assert.NoError(t, repo.ValidateSchema())

	// Second bootstrap on a versioned database is a no-op.
	assert.NoError(t, repo.EnsureSchemaBootstrapped())
	assert.NoError(t, repo.ValidateSchema())
}
