// filepath: internal/services/image_service.go
package services

import (
	"context"
	"fmt"
	"io"

	"medialocker/internal/logging"
	"medialocker/internal/models"
	"medialocker/internal/repository"
	"medialocker/internal/services/auth"
	"medialocker/internal/shared"
)

// Compile-time check to ensure the interface is implemented.
var _ ImageService = (*imageService)(nil)

// imageService handles business logic for media operations. Every
// operation resolves the target image first and asks the policy engine
// before touching content.
type imageService struct {
	Repo  *repository.Repository
	Store MediaStore
	Audit Auditor
}

// NewImageService creates a new ImageService.
func NewImageService(repo *repository.Repository, store MediaStore, audit Auditor) *imageService {
	return &imageService{Repo: repo, Store: store, Audit: audit}
}

// Upload stores the file content and records the image row owned by the
// caller. The row is written only after the bytes are safely on disk;
// if the row insert fails the stored file is removed again.
func (s *imageService) Upload(caller *auth.Claims, file io.Reader, originalName string) (*models.Image, error) {
	if d := auth.Decide(caller, auth.ActionUploadImage, auth.NoResource); !d.Allowed {
		return nil, d.Err()
	}
	if originalName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	relPath, size, err := s.Store.Save(file, originalName)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	img, err := s.Repo.CreateImage(&models.Image{
		OriginalName: originalName,
		StoredPath:   relPath,
		SizeBytes:    size,
		OwnerID:      caller.UserID(),
	})
	if err != nil {
		s.Store.Remove(relPath)
		return nil, err
	}

	logging.Log.Debugf("ImageService: user %d uploaded %s (%d bytes) as image %d",
		caller.UserID(), originalName, size, img.ID)
	return img, nil
}

// ListOwn returns a page of the caller's images, newest first, each
// decorated with the caller's favourite mark.
func (s *imageService) ListOwn(caller *auth.Claims, page, pageSize int) ([]OwnedImage, int, error) {
	if d := auth.Decide(caller, auth.ActionListOwnImages, auth.NoResource); !d.Allowed {
		return nil, 0, d.Err()
	}
	limit, offset := pageBounds(page, pageSize)
	images, total, err := s.Repo.GetImagesByOwner(caller.UserID(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.withFavourites(caller.UserID(), images)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Filenames returns the caller's distinct original file names, sorted.
func (s *imageService) Filenames(caller *auth.Claims) ([]string, error) {
	if d := auth.Decide(caller, auth.ActionListOwnImages, auth.NoResource); !d.Allowed {
		return nil, d.Err()
	}
	return s.Repo.GetDistinctFilenames(caller.UserID())
}

// ByFilename returns the caller's images with the given original name,
// newest first.
func (s *imageService) ByFilename(caller *auth.Claims, name string) ([]OwnedImage, error) {
	if d := auth.Decide(caller, auth.ActionListOwnImages, auth.NoResource); !d.Allowed {
		return nil, d.Err()
	}
	images, err := s.Repo.GetImagesByFilename(caller.UserID(), name)
	if err != nil {
		return nil, err
	}
	return s.withFavourites(caller.UserID(), images)
}

// OpenFile streams an image the caller owns (or any image, for admins).
func (s *imageService) OpenFile(caller *auth.Claims, id int64) (io.ReadCloser, *models.Image, error) {
	img, err := s.Repo.GetImage(id)
	if err != nil {
		return nil, nil, err
	}
	if d := auth.Decide(caller, auth.ActionDownloadImage, auth.ImageResource(img)); !d.Allowed {
		return nil, nil, d.Err()
	}
	return s.openContent(img)
}

// OpenPublic streams an image on the anonymous view path. There is no
// ownership check; possession of the id is the capability.
func (s *imageService) OpenPublic(id int64) (io.ReadCloser, *models.Image, error) {
	img, err := s.Repo.GetImage(id)
	if err != nil {
		return nil, nil, err
	}
	return s.openContent(img)
}

// openContent opens the stored file for an already-authorized image. A
// missing file surfaces as not-found, same as a missing row.
func (s *imageService) openContent(img *models.Image) (io.ReadCloser, *models.Image, error) {
	rc, err := s.Store.Open(img.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	if rc == nil {
		logging.Log.Warnf("ImageService: image %d has no file at %s", img.ID, img.StoredPath)
		return nil, nil, shared.ErrImageNotFound
	}
	return rc, img, nil
}

// Delete removes the image row and its favourite marks in one
// transaction, then the file. A failed physical delete is logged and
// the operation still succeeds; the row is gone either way.
func (s *imageService) Delete(ctx context.Context, caller *auth.Claims, id int64) error {
	img, err := s.Repo.GetImage(id)
	if err != nil {
		return err
	}
	if d := auth.Decide(caller, auth.ActionDeleteImage, auth.ImageResource(img)); !d.Allowed {
		return d.Err()
	}

	path, err := s.Repo.DeleteImage(id)
	if err != nil {
		return err
	}
	if !s.Store.Remove(path) {
		logging.Log.Warnf("ImageService: file %s left orphaned after image %d deletion", path, id)
	}
	s.Audit.Log(ctx, "image.delete", caller.Username, fmt.Sprintf("Image:%d", id),
		map[string]interface{}{"owner_id": img.OwnerID})
	return nil
}

// ToggleFavourite flips the caller's favourite mark on an image they
// own and returns the resulting state: true means marked.
func (s *imageService) ToggleFavourite(caller *auth.Claims, id int64) (bool, error) {
	img, err := s.Repo.GetImage(id)
	if err != nil {
		return false, err
	}
	if d := auth.Decide(caller, auth.ActionToggleFavourite, auth.ImageResource(img)); !d.Allowed {
		return false, d.Err()
	}
	return s.Repo.ToggleFavourite(caller.UserID(), id)
}

// AdminList returns a page of every image with its owner's name.
func (s *imageService) AdminList(caller *auth.Claims, page, pageSize int) ([]models.AdminImage, int, error) {
	if d := auth.Decide(caller, auth.ActionListAllImages, auth.NoResource); !d.Allowed {
		return nil, 0, d.Err()
	}
	limit, offset := pageBounds(page, pageSize)
	return s.Repo.GetAllImages(limit, offset)
}

// AdminBatchDelete removes the given images regardless of owner, with
// the same cascade semantics per image. Unknown ids are skipped. It
// returns the number of rows actually deleted.
func (s *imageService) AdminBatchDelete(ctx context.Context, caller *auth.Claims, ids []int64) (int, error) {
	if d := auth.Decide(caller, auth.ActionBatchDelete, auth.NoResource); !d.Allowed {
		return 0, d.Err()
	}

	paths, err := s.Repo.DeleteImages(ids)
	if err != nil {
		return 0, err
	}
	for _, p := range paths {
		if !s.Store.Remove(p) {
			logging.Log.Warnf("ImageService: file %s left orphaned after batch delete", p)
		}
	}
	s.Audit.Log(ctx, "image.batch_delete", caller.Username, "Images",
		map[string]interface{}{"requested": len(ids), "deleted": len(paths)})
	return len(paths), nil
}

// withFavourites decorates image rows with the user's favourite marks
// in a single registry query.
func (s *imageService) withFavourites(userID int64, images []models.Image) ([]OwnedImage, error) {
	marks, err := s.Repo.GetFavouriteImageIDs(userID)
	if err != nil {
		return nil, err
	}
	items := make([]OwnedImage, 0, len(images))
	for _, img := range images {
		items = append(items, OwnedImage{Image: img, Favourite: marks[img.ID]})
	}
	return items, nil
}
