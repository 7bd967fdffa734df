// filepath: internal/repository/user_repo.go
package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"medialocker/internal/logging"
	"medialocker/internal/models"
	"medialocker/internal/shared"
)

// dummyHash is a bcrypt hash of an unguessable constant. Verification
// against it runs when the username does not exist, so the missing-user
// and wrong-password branches cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CreateUser persists a new account. The plaintext password is hashed
// with a fresh salt here and never stored.
func (s *Repository) CreateUser(username, password, role string) (*models.User, error) {
	logging.Log.Debugf("CreateUser: Hashing password for '%s'", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := "INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)"
	result, err := s.DB.Exec(query, username, string(hashedPassword), role)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return nil, shared.ErrDuplicateUsername
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	logging.Log.Debugf("CreateUser: User '%s' created with ID %d", username, id)
	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}, nil
}

// VerifyCredentials checks a username/password pair. Both the unknown
// user and the wrong password return shared.ErrInvalidCredentials; the
// caller must not be able to tell the two apart.
func (s *Repository) VerifyCredentials(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		// Burn a comparable amount of CPU before answering.
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their username, using a cache
// for performance. The lookup is case-insensitive (COLLATE NOCASE);
// the stored casing is returned. Cache keys are folded to lower case so
// differently-cased lookups share one entry.
func (s *Repository) GetUserByUsername(username string) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_name_%s", strings.ToLower(username))
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByUsername: CACHE MISS for '%s'. Querying DB.", username)
	query := "SELECT id, username, password_hash, role FROM users WHERE username = ?"
	row := s.DB.QueryRow(query, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}

	s.Cache.Set(cacheKey, &user, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("user_by_id_%d", user.ID), &user, 5*time.Minute)
	return &user, nil
}

// GetUserByID retrieves a user by their ID, using a cache for performance.
func (s *Repository) GetUserByID(id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_id_%d", id)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByID: CACHE MISS for ID %d. Querying DB.", id)
	query := "SELECT id, username, password_hash, role FROM users WHERE id = ?"
	row := s.DB.QueryRow(query, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}

	s.Cache.Set(cacheKey, &user, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("user_by_name_%s", strings.ToLower(user.Username)), &user, 5*time.Minute)
	return &user, nil
}

// GetUsers retrieves one page of users ordered by ID, plus the total count.
func (s *Repository) GetUsers(limit, offset int) ([]models.User, int, error) {
	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := s.Builder.
		Select("id", "username", "password_hash", "role").
		From("users").
		OrderBy("id ASC").
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

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// UpdateUserRole changes a user's role.
func (s *Repository) UpdateUserRole(id int64, role string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if _, err := s.DB.Exec("UPDATE users SET role = ? WHERE id = ?", role, id); err != nil {
		return err
	}
	s.invalidateUser(user)
	return nil
}

// UpdateUserPassword re-hashes and stores a new password for a user.
func (s *Repository) UpdateUserPassword(id int64, password string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	logging.Log.Debugf("UpdateUserPassword: Hashing new password for user '%s'", user.Username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.DB.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id); err != nil {
		return err
	}
	s.invalidateUser(user)
	return nil
}

// AdminExists reports whether at least one Admin account exists.
func (s *Repository) AdminExists() (bool, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = ?", models.RoleAdmin).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserCascade removes a user together with every image they own,
// every favourite they placed, and every favourite pointing at their
// images, all in one transaction. It returns the stored paths of the
// deleted images so the caller can remove the physical files afterwards.
func (s *Repository) DeleteUserCascade(id int64) ([]string, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT stored_path FROM images WHERE owner_id = ?", id)
	if err != nil {
		return nil, err
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, err
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Marks placed by this user, then marks on this user's images.
	if _, err := tx.Exec("DELETE FROM favourites WHERE user_id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("DELETE FROM favourites WHERE image_id IN (SELECT id FROM images WHERE owner_id = ?)", id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("DELETE FROM images WHERE owner_id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateUser(user)
	return paths, nil
}

// invalidateUser drops both cache entries for a user.
func (s *Repository) invalidateUser(user *models.User) {
	s.Cache.Delete(fmt.Sprintf("user_by_name_%s", strings.ToLower(user.Username)))
	s.Cache.Delete(fmt.Sprintf("user_by_id_%d", user.ID))
}
