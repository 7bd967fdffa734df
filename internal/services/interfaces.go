// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"

	"medialocker/internal/config"
	"medialocker/internal/models"
	"medialocker/internal/services/auth"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "image.delete", "user.role_change")
	// actor: who did it (username, or "anonymous")
	// resource: what was affected (e.g., "Image:101", "User:7")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// MediaStore is the physical content store behind the image service.
// Save returns the relative path and byte count of the stored file.
// Open returns (nil, nil) when the file is missing. Remove reports
// whether the file is gone afterwards.
type MediaStore interface {
	Save(fileData io.Reader, originalName string) (string, int64, error)
	Open(relPath string) (io.ReadCloser, error)
	Remove(relPath string) bool
}

// UserService defines the interface for account management.
type UserService interface {
	Register(username, password string) (*models.User, error)
	Verify(username, password string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	ListUsers(caller *auth.Claims, page, pageSize int) ([]models.User, int, error)
	ChangeRole(caller *auth.Claims, targetID int64, role string) (*models.User, error)
	ResetPassword(caller *auth.Claims, targetID int64, newPassword string) error
	DeleteAccount(ctx context.Context, caller *auth.Claims, targetID int64) error
	EnsureAdmin(cfg *config.Config) error
}

// OwnedImage is an image row decorated with the caller's favourite mark.
type OwnedImage struct {
	models.Image
	Favourite bool `json:"favourite"`
}

// ImageService defines the interface for media operations.
type ImageService interface {
	Upload(caller *auth.Claims, file io.Reader, originalName string) (*models.Image, error)
	ListOwn(caller *auth.Claims, page, pageSize int) ([]OwnedImage, int, error)
	Filenames(caller *auth.Claims) ([]string, error)
	ByFilename(caller *auth.Claims, name string) ([]OwnedImage, error)
	OpenFile(caller *auth.Claims, id int64) (io.ReadCloser, *models.Image, error)
	OpenPublic(id int64) (io.ReadCloser, *models.Image, error)
	Delete(ctx context.Context, caller *auth.Claims, id int64) error
	ToggleFavourite(caller *auth.Claims, id int64) (bool, error)
	AdminList(caller *auth.Claims, page, pageSize int) ([]models.AdminImage, int, error)
	AdminBatchDelete(ctx context.Context, caller *auth.Claims, ids []int64) (int, error)
}
