// filepath: internal/repository/favourite_repo.go
package repository

import (
	"time"

	"medialocker/internal/logging"
)

// ToggleFavourite flips the favourite mark for a (user, image) pair and
// returns the resulting state: true when the pair is now marked.
//
// The operation is delete-first: a DELETE that removes a row means the
// mark existed and the pair is now unmarked. Otherwise an INSERT places
// the mark. Two concurrent first-toggles can both pass the DELETE with
// zero rows affected; the composite UNIQUE(user_id, image_id) constraint
// is the authority, not the check — the losing INSERT is read as "the
// mark already exists" so the returned state always matches the row's
// existence after the call.
func (s *Repository) ToggleFavourite(userID, imageID int64) (bool, error) {
	res, err := s.DB.Exec("DELETE FROM favourites WHERE user_id = ? AND image_id = ?", userID, imageID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return false, nil // was marked, now unmarked
	}

	_, err = s.DB.Exec(
		"INSERT INTO favourites (user_id, image_id, marked_at) VALUES (?, ?, ?)",
		userID, imageID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err, "favourites.user_id, favourites.image_id") {
			// Lost a race against a concurrent insert: the mark exists.
			logging.Log.Debugf("ToggleFavourite: concurrent insert for user %d image %d", userID, imageID)
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// GetFavouriteImageIDs returns the set of image IDs the user has marked,
// for filling the favourite flag on listings.
func (s *Repository) GetFavouriteImageIDs(userID int64) (map[int64]bool, error) {
	rows, err := s.DB.Query("SELECT image_id FROM favourites WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// CountFavouritesForImage returns how many users have marked an image.
func (s *Repository) CountFavouritesForImage(imageID int64) (int, error) {
	var count int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM favourites WHERE image_id = ?", imageID).Scan(&count)
	return count, err
}
