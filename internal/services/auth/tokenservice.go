// filepath: internal/services/auth/tokenservice.go
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medialocker/internal/config"
	"medialocker/internal/models"
	"medialocker/internal/shared"
)

// Claims is the validated identity a bearer token carries: subject
// (account id), username, role, a unique token id for future revocation,
// issuer, audience, and the absolute expiry.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the account id from the subject claim.
func (c *Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// IsAdmin reports whether the claims carry the Admin role.
func (c *Claims) IsAdmin() bool { return c.Role == models.RoleAdmin }

// TokenService defines the contract for JWT operations.
//
// There is no refresh flow: once a token expires the client must log in
// again. Known gap, accepted for now.
type TokenService interface {
	Issue(user *models.User) (token string, expiresAt time.Time, err error)
	Validate(tokenString string) (*Claims, error)
}

// Compile-time check to ensure tokenService implements the TokenService interface.
var _ TokenService = (*tokenService)(nil)

type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of the tokenService.
func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{cfg: cfg}
}

// Issue creates and signs an access token for the user. The signature
// covers header and payload, so any tampering invalidates the token.
func (s *tokenService) Issue(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Minute * time.Duration(s.cfg.JWT.ExpiryMinutes))

	jtiBytes := make([]byte, 16)
	if _, err := rand.Read(jtiBytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token id: %w", err)
	}

	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        hex.EncodeToString(jtiBytes),
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, issuer, audience and expiry with zero
// clock-skew tolerance and returns the embedded claims. Failures map to
// the shared token error taxonomy and carry no further detail.
func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWT.Issuer),
		jwt.WithAudience(s.cfg.JWT.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, shared.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, shared.ErrTokenExpired
		default:
			return nil, shared.ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, shared.ErrTokenInvalid
	}
	return claims, nil
}
