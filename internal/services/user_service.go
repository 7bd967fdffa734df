// filepath: internal/services/user_service.go
package services

import (
	"context"
	"crypto/rand"
	"fmt"

	"medialocker/internal/config"
	"medialocker/internal/logging"
	"medialocker/internal/models"
	"medialocker/internal/repository"
	"medialocker/internal/services/auth"
	"medialocker/internal/shared"
)

// Compile-time check to ensure the interface is implemented.
var _ UserService = (*userService)(nil)

// userService handles business logic for account management.
type userService struct {
	Repo  *repository.Repository
	Store MediaStore
	Audit Auditor
}

// NewUserService creates a new UserService. The media store is needed
// for the account cascade, which removes the deleted user's files.
func NewUserService(repo *repository.Repository, store MediaStore, audit Auditor) *userService {
	return &userService{Repo: repo, Store: store, Audit: audit}
}

// Register creates a regular account. Public registration never assigns
// the Admin role.
func (s *userService) Register(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	logging.Log.Debugf("UserService: registering user '%s'", username)
	return s.Repo.CreateUser(username, password, models.RoleUser)
}

// Verify checks a username/password pair and returns the account.
// Failures are indistinguishable between unknown user and wrong
// password.
func (s *userService) Verify(username, password string) (*models.User, error) {
	return s.Repo.VerifyCredentials(username, password)
}

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(id int64) (*models.User, error) {
	return s.Repo.GetUserByID(id)
}

// ListUsers returns a page of accounts, admin only.
func (s *userService) ListUsers(caller *auth.Claims, page, pageSize int) ([]models.User, int, error) {
	if d := auth.Decide(caller, auth.ActionListUsers, auth.NoResource); !d.Allowed {
		return nil, 0, d.Err()
	}
	limit, offset := pageBounds(page, pageSize)
	return s.Repo.GetUsers(limit, offset)
}

// ChangeRole sets the role of another account. Admins cannot change
// their own role.
func (s *userService) ChangeRole(caller *auth.Claims, targetID int64, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, shared.ErrInvalidRole
	}
	if d := auth.Decide(caller, auth.ActionChangeRole, auth.AccountResource(targetID)); !d.Allowed {
		return nil, d.Err()
	}
	if err := s.Repo.UpdateUserRole(targetID, role); err != nil {
		return nil, err
	}
	logging.Log.Infof("UserService: user %d role changed to %s by %s", targetID, role, caller.Username)
	return s.Repo.GetUserByID(targetID)
}

// ResetPassword sets a new password on the target account.
func (s *userService) ResetPassword(caller *auth.Claims, targetID int64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}
	if d := auth.Decide(caller, auth.ActionResetPassword, auth.AccountResource(targetID)); !d.Allowed {
		return d.Err()
	}
	if err := s.Repo.UpdateUserPassword(targetID, newPassword); err != nil {
		return err
	}
	logging.Log.Infof("UserService: password reset for user %d by %s", targetID, caller.Username)
	return nil
}

// DeleteAccount removes the account, its images, and every favourite
// mark touching them in one transaction, then deletes the files. A file
// that cannot be removed is logged and left behind; the rows are
// already gone.
func (s *userService) DeleteAccount(ctx context.Context, caller *auth.Claims, targetID int64) error {
	if d := auth.Decide(caller, auth.ActionDeleteAccount, auth.AccountResource(targetID)); !d.Allowed {
		return d.Err()
	}

	paths, err := s.Repo.DeleteUserCascade(targetID)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if !s.Store.Remove(p) {
			logging.Log.Warnf("UserService: file %s left orphaned after account %d deletion", p, targetID)
		}
	}
	s.Audit.Log(ctx, "user.delete", caller.Username, fmt.Sprintf("User:%d", targetID),
		map[string]interface{}{"files_removed": len(paths)})
	return nil
}

// EnsureAdmin makes sure an Admin account exists on startup and handles
// password resets requested via flags.
func (s *userService) EnsureAdmin(cfg *config.Config) error {
	exists, err := s.Repo.AdminExists()
	if err != nil {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	if !exists {
		return s.createAdminUser(cfg.AdminPassword)
	}

	if cfg.ResetAdminPassword {
		return s.resetAdminPassword(cfg.AdminPassword)
	}
	return nil
}

// createAdminUser creates the initial 'admin' account.
func (s *userService) createAdminUser(password string) error {
	if password == "" {
		password = generateRandomPassword(12)
		logging.Log.Warnf("No admin password provided. Generated a random password for 'admin': %s", password)
	}
	if _, err := s.Repo.CreateUser("admin", password, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	logging.Log.Info("Admin account created successfully.")
	return nil
}

// resetAdminPassword updates the admin's password based on startup flags.
func (s *userService) resetAdminPassword(password string) error {
	if password == "" {
		return fmt.Errorf("cannot reset admin password: --reset_pw is set but no password was provided")
	}
	admin, err := s.Repo.GetUserByUsername("admin")
	if err != nil {
		return fmt.Errorf("cannot reset admin password: %w", err)
	}
	if err := s.Repo.UpdateUserPassword(admin.ID, password); err != nil {
		return fmt.Errorf("failed to reset admin password: %w", err)
	}
	logging.Log.Info("Admin password has been reset.")
	return nil
}

// generateRandomPassword creates a cryptographically secure random password.
func generateRandomPassword(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		logging.Log.Fatalf("Failed to generate random password: %v", err)
	}
	for i := range b {
		b[i] = chars[int(b[i])%len(chars)]
	}
	return string(b)
}

// pageBounds converts 1-based page numbers to limit/offset. Page and
// size fall back to 1 and 20; size is capped at 100.
func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
