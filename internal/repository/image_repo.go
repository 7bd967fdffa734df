// filepath: internal/repository/image_repo.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"medialocker/internal/models"
	"medialocker/internal/shared"
)

// CreateImage persists the metadata record for a stored file. The
// physical write must already have completed; metadata is never
// committed for a file that was not fully written.
func (s *Repository) CreateImage(img *models.Image) (*models.Image, error) {
	query := `
		INSERT INTO images (original_name, stored_path, size_bytes, owner_id, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.DB.Exec(query, img.OriginalName, img.StoredPath, img.SizeBytes, img.OwnerID, img.UploadedAt)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	img.ID = id
	return img, nil
}

// GetImage retrieves a single image record by ID.
func (s *Repository) GetImage(id int64) (*models.Image, error) {
	query := "SELECT id, original_name, stored_path, size_bytes, owner_id, uploaded_at FROM images WHERE id = ?"
	row := s.DB.QueryRow(query, id)

	var img models.Image
	if err := row.Scan(&img.ID, &img.OriginalName, &img.StoredPath, &img.SizeBytes, &img.OwnerID, &img.UploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrImageNotFound
		}
		return nil, err
	}
	return &img, nil
}

// GetImagesByOwner retrieves one page of a user's images, newest first,
// plus the owner's total image count.
func (s *Repository) GetImagesByOwner(ownerID int64, limit, offset int) ([]models.Image, int, error) {
	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM images WHERE owner_id = ?", ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := s.Builder.
		Select("id", "original_name", "stored_path", "size_bytes", "owner_id", "uploaded_at").
		From("images").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("uploaded_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	images, err := s.queryImages(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

// GetDistinctFilenames returns the sorted set of original filenames a
// user has uploaded.
func (s *Repository) GetDistinctFilenames(ownerID int64) ([]string, error) {
	rows, err := s.DB.Query(
		"SELECT DISTINCT original_name FROM images WHERE owner_id = ? ORDER BY original_name ASC",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// GetImagesByFilename returns all of a user's images sharing one
// original filename, newest first.
func (s *Repository) GetImagesByFilename(ownerID int64, name string) ([]models.Image, error) {
	query, args, err := s.Builder.
		Select("id", "original_name", "stored_path", "size_bytes", "owner_id", "uploaded_at").
		From("images").
		Where(squirrel.Eq{"owner_id": ownerID, "original_name": name}).
		OrderBy("uploaded_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryImages(query, args...)
}

// GetAllImages retrieves one page of every user's images joined with the
// owner's username, newest first. Admin catalog view.
func (s *Repository) GetAllImages(limit, offset int) ([]models.AdminImage, int, error) {
	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM images").Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := s.Builder.
		Select("i.id", "i.original_name", "i.stored_path", "i.size_bytes", "i.owner_id", "i.uploaded_at", "u.username").
		From("images i").
		Join("users u ON u.id = i.owner_id").
		OrderBy("i.uploaded_at DESC", "i.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	images := make([]models.AdminImage, 0)
	for rows.Next() {
		var img models.AdminImage
		if err := rows.Scan(&img.ID, &img.OriginalName, &img.StoredPath, &img.SizeBytes, &img.OwnerID, &img.UploadedAt, &img.OwnerName); err != nil {
			return nil, 0, err
		}
		images = append(images, img)
	}
	return images, total, rows.Err()
}

// DeleteImage removes an image row and every favourite referencing it in
// one transaction, returning the stored path for physical cleanup.
// Deleting the metadata and the marks is one logical unit of work; the
// physical file is the caller's (soft-fail) problem.
func (s *Repository) DeleteImage(id int64) (string, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var storedPath string
	if err := tx.QueryRow("SELECT stored_path FROM images WHERE id = ?", id).Scan(&storedPath); err != nil {
		if err == sql.ErrNoRows {
			return "", shared.ErrImageNotFound
		}
		return "", err
	}

	if _, err := tx.Exec("DELETE FROM favourites WHERE image_id = ?", id); err != nil {
		return "", err
	}
	if _, err := tx.Exec("DELETE FROM images WHERE id = ?", id); err != nil {
		return "", err
	}
	return storedPath, tx.Commit()
}

// DeleteImages performs a transactional bulk delete. Only rows that
// actually exist are deleted; their stored paths are returned so the
// caller can clean up files on disk.
func (s *Repository) DeleteImages(ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery, selectArgs, err := s.Builder.
		Select("id", "stored_path").
		From("images").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := tx.Query(selectQuery, selectArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query images for deletion: %w", err)
	}

	var paths []string
	var foundIDs []int64
	for rows.Next() {
		var id int64
		var p string
		if err := rows.Scan(&id, &p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		foundIDs = append(foundIDs, id)
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(foundIDs) == 0 {
		return []string{}, nil // Nothing found to delete
	}

	favQuery, favArgs, err := s.Builder.
		Delete("favourites").
		Where(squirrel.Eq{"image_id": foundIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build favourites delete: %w", err)
	}
	if _, err := tx.Exec(favQuery, favArgs...); err != nil {
		return nil, fmt.Errorf("failed to delete favourites: %w", err)
	}

	imgQuery, imgArgs, err := s.Builder.
		Delete("images").
		Where(squirrel.Eq{"id": foundIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build images delete: %w", err)
	}
	if _, err := tx.Exec(imgQuery, imgArgs...); err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}

	return paths, tx.Commit()
}

// queryImages runs a SELECT over the standard image column set.
func (s *Repository) queryImages(query string, args ...interface{}) ([]models.Image, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.OriginalName, &img.StoredPath, &img.SizeBytes, &img.OwnerID, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
