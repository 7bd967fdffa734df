// filepath: internal/repository/image_repo_test.go
package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medialocker/internal/models"
	"medialocker/internal/shared"
)

func TestImageCreateAndGet(t *testing.T) {
	repo := setupTestDB(t)
	owner := mustCreateUser(t, repo, "uploader", "a-password", models.RoleUser)

	created := mustCreateImage(t, repo, owner.ID, "cat.png", "2026/08/01J5ZX.png", 500000)
	assert.NotZero(t, created.ID)

	got, err := repo.GetImage(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "cat.png", got.OriginalName)
	assert.Equal(t, "2026/08/01J5ZX.png", got.StoredPath)
	assert.Equal(t, int64(500000), got.SizeBytes)
	assert.Equal(t, owner.ID, got.OwnerID)

	_, err = repo.GetImage(99999)
	assert.ErrorIs(t, err, shared.ErrImageNotFound)
}

func TestGetImagesByOwner_PaginationAndIsolation(t *testing.T) {
	repo := setupTestDB(t)
	alice := mustCreateUser(t, repo, "alice", "alice-password", models.RoleUser)
	bob := mustCreateUser(t, repo, "bob", "bob-password", models.RoleUser)

	for i := 0; i < 5; i++ {
		mustCreateImage(t, repo, alice.ID, "a.png", "p", 1)
	}
	mustCreateImage(t, repo, bob.ID, "b.png", "q", 1)

	images, total, err := repo.GetImagesByOwner(alice.ID, 3, 0)
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, images, 3)
	for _, img := range images {
		assert.Equal(t, alice.ID, img.OwnerID, "listing must never leak another owner's images")
	}

	images, total, err = repo.GetImagesByOwner(alice.ID, 3, 3)
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, images, 2)
}

func TestGetDistinctFilenames(t *testing.T) {
	repo := setupTestDB(t)
	owner := mustCreateUser(t, repo, "carol", "carol-password", models.RoleUser)

	mustCreateImage(t, repo, owner.ID, "zebra.png", "p1", 1)
	mustCreateImage(t, repo, owner.ID, "apple.jpg", "p2", 1)
	mustCreateImage(t, repo, owner.ID, "zebra.png", "p3", 1)

	names, err := repo.GetDistinctFilenames(owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"apple.jpg", "zebra.png"}, names)
}

func TestGetImagesByFilename(t *testing.T) {
	repo := setupTestDB(t)
	owner := mustCreateUser(t, repo, "dave", "dave-password", models.RoleUser)

	mustCreateImage(t, repo, owner.ID, "dup.png", "p1", 1)
	mustCreateImage(t, repo, owner.ID, "dup.png", "p2", 1)
	mustCreateImage(t, repo, owner.ID, "solo.png", "p3", 1)

	images, err := repo.GetImagesByFilename(owner.ID, "dup.png")
	assert.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestDeleteImage_RemovesMarks(t *testing.T) {
	repo := setupTestDB(t)
	owner := mustCreateUser(t, repo, "erin", "erin-password", models.RoleUser)
	fan := mustCreateUser(t, repo, "frank", "frank-password", models.RoleUser)

	img := mustCreateImage(t, repo, owner.ID, "pic.png", "2026/08/pic.png", 123)
	_, err := repo.ToggleFavourite(fan.ID, img.ID)
	assert.NoError(t, err)

	path, err := repo.DeleteImage(img.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2026/08/pic.png", path)

	_, err = repo.GetImage(img.ID)
	assert.ErrorIs(t, err, shared.ErrImageNotFound)
	count, err := repo.CountFavouritesForImage(img.ID)
	assert.NoError(t, err)
	assert.Zero(t, count, "asset deletion is not complete while dangling marks exist")

	_, err = repo.DeleteImage(img.ID)
	assert.ErrorIs(t, err, shared.ErrImageNotFound)
}

func TestDeleteImages_Bulk(t *testing.T) {
	repo := setupTestDB(t)
	owner := mustCreateUser(t, repo, "grace", "grace-password", models.RoleUser)

	img1 := mustCreateImage(t, repo, owner.ID, "one.png", "bulk/one.png", 1)
	img2 := mustCreateImage(t, repo, owner.ID, "two.png", "bulk/two.png", 1)
	_, err := repo.ToggleFavourite(owner.ID, img1.ID)
	assert.NoError(t, err)

	// Includes an ID that does not exist; only found rows are deleted.
	paths, err := repo.DeleteImages([]int64{img1.ID, img2.ID, 424242})
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"bulk/one.png", "bulk/two.png"}, paths)

	marks, err := repo.GetFavouriteImageIDs(owner.ID)
	assert.NoError(t, err)
	assert.Empty(t, marks)

	paths, err = repo.DeleteImages(nil)
	assert.NoError(t, err)
	assert.Empty(t, paths)
}

func TestGetAllImages_JoinsOwner(t *testing.T) {
	repo := setupTestDB(t)
	alice := mustCreateUser(t, repo, "alice", "alice-password", models.RoleUser)
	bob := mustCreateUser(t, repo, "bob", "bob-password", models.RoleUser)

	mustCreateImage(t, repo, alice.ID, "a.png", "p1", 1)
	mustCreateImage(t, repo, bob.ID, "b.png", "p2", 1)

	images, total, err := repo.GetAllImages(10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, images, 2)

	owners := map[string]bool{}
	for _, img := range images {
		owners[img.OwnerName] = true
	}
	assert.True(t, owners["alice"])
	assert.True(t, owners["bob"])
}
