// internal/models/models.go
package models

import "time"

// Role values stored on a user record. There are exactly two; anything
// else is rejected at the API boundary.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// ValidRole reports whether r is one of the two accepted role values.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record. PasswordHash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// IsAdmin reports whether the user carries the Admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Image is the metadata record for one stored media file. StoredPath is
// a server-generated relative path under the storage root; the original
// filename survives only as metadata, never as part of the path.
type Image struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	StoredPath   string    `json:"-"`
	SizeBytes    int64     `json:"size_bytes"`
	OwnerID      int64     `json:"owner_id"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Favourite marks one image for one user. At most one row may exist per
// (UserID, ImageID) pair; that constraint is what makes the toggle safe
// under concurrency.
type Favourite struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	ImageID  int64     `json:"image_id"`
	MarkedAt time.Time `json:"marked_at"`
}

// AdminImage is an image row joined with its owner's username, for the
// admin catalog view.
type AdminImage struct {
	Image
	OwnerName string `json:"owner_name"`
}
