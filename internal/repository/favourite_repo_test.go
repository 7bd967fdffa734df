// filepath: internal/repository/favourite_repo_test.go
package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"medialocker/internal/models"
)

func TestToggleFavourite_Alternates(t *testing.T) {
	repo := setupTestDB(t)
	user := mustCreateUser(t, repo, "toggler", "a-password", models.RoleUser)
	img := mustCreateImage(t, repo, user.ID, "pic.png", "p", 1)

	for i := 0; i < 6; i++ {
		marked, err := repo.ToggleFavourite(user.ID, img.ID)
		assert.NoError(t, err)
		wantMarked := i%2 == 0
		assert.Equal(t, wantMarked, marked, "toggle #%d", i+1)

		// Returned state must match the row's existence.
		count, err := repo.CountFavouritesForImage(img.ID)
		assert.NoError(t, err)
		if wantMarked {
			assert.Equal(t, 1, count)
		} else {
			assert.Equal(t, 0, count)
		}
	}
}

func TestToggleFavourite_ConcurrentFirstCalls(t *testing.T) {
	repo := setupTestDB(t)
	user := mustCreateUser(t, repo, "racer", "a-password", models.RoleUser)
	img := mustCreateImage(t, repo, user.ID, "pic.png", "p", 1)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	// An even number of concurrent toggles can interleave in any order;
	// none may surface a constraint violation, and afterwards the row
	// count must be exactly zero or one.
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ToggleFavourite(user.ID, img.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent toggle failed: %v", err)
	}

	count, err := repo.CountFavouritesForImage(img.ID)
	assert.NoError(t, err)
	assert.LessOrEqual(t, count, 1, "uniqueness invariant violated: %d marks exist", count)
}

func TestGetFavouriteImageIDs(t *testing.T) {
	repo := setupTestDB(t)
	user := mustCreateUser(t, repo, "collector", "a-password", models.RoleUser)
	img1 := mustCreateImage(t, repo, user.ID, "one.png", "p1", 1)
	img2 := mustCreateImage(t, repo, user.ID, "two.png", "p2", 1)
	img3 := mustCreateImage(t, repo, user.ID, "three.png", "p3", 1)

	_, err := repo.ToggleFavourite(user.ID, img1.ID)
	assert.NoError(t, err)
	_, err = repo.ToggleFavourite(user.ID, img3.ID)
	assert.NoError(t, err)

	ids, err := repo.GetFavouriteImageIDs(user.ID)
	assert.NoError(t, err)
	assert.True(t, ids[img1.ID])
	assert.False(t, ids[img2.ID])
	assert.True(t, ids[img3.ID])
}
