package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// credential errors
const (
	ErrDuplicateUsername  = Error("username already taken")
	ErrInvalidCredentials = Error("invalid credentials")
	ErrUserNotFound       = Error("user not found")
)

// token errors
const (
	ErrTokenExpired   = Error("token expired")
	ErrTokenInvalid   = Error("token signature or claims invalid")
	ErrTokenMalformed = Error("token malformed")
)

// authorization errors
const (
	ErrUnauthenticated = Error("authentication required")
	ErrForbidden       = Error("forbidden")
	ErrNotOwner        = Error("not the owner of this resource")
	ErrSelfProtection  = Error("operation not permitted on own account")
)

// catalog errors
const (
	ErrImageNotFound = Error("image not found")
	ErrInvalidRole   = Error("invalid role")
)
