// filepath: internal/services/auth/token_service_test.go
package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialocker/internal/config"
	"medialocker/internal/models"
	"medialocker/internal/services/auth"
	"medialocker/internal/shared"
)

const testSecret = "super-secret-key-for-testing"

func testTokenService() auth.TokenService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			ExpiryMinutes: 5,
			Issuer:        "medialocker",
			Audience:      "medialocker-clients",
		},
		JWTSecret: testSecret,
	}
	return auth.NewTokenService(cfg)
}

// signTestToken builds a token outside the service so tests can control
// individual claims such as the expiry instant or the issuer.
func signTestToken(t *testing.T, secret string, mutate func(*auth.Claims)) string {
	t.Helper()
	claims := &auth.Claims{
		Username: "tokenuser",
		Role:     models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ID:        "test-jti",
			Issuer:    "medialocker",
			Audience:  jwt.ClaimStrings{"medialocker-clients"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	svc := testTokenService()
	user := &models.User{ID: 42, Username: "tokenuser", Role: models.RoleAdmin}

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "tokenuser", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID, "every token carries a unique id")
}

func TestValidate_UniqueTokenIDs(t *testing.T) {
	svc := testTokenService()
	user := &models.User{ID: 1, Username: "u", Role: models.RoleUser}

	first, _, err := svc.Issue(user)
	require.NoError(t, err)
	second, _, err := svc.Issue(user)
	require.NoError(t, err)

	c1, err := svc.Validate(first)
	require.NoError(t, err)
	c2, err := svc.Validate(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	svc := testTokenService()

	justExpired := signTestToken(t, testSecret, func(c *auth.Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Second))
	})
	_, err := svc.Validate(justExpired)
	assert.ErrorIs(t, err, shared.ErrTokenExpired, "no clock-skew grace after expiry")

	stillValid := signTestToken(t, testSecret, func(c *auth.Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(10 * time.Second))
	})
	_, err = svc.Validate(stillValid)
	assert.NoError(t, err)
}

func TestValidate_Tampered(t *testing.T) {
	svc := testTokenService()
	user := &models.User{ID: 7, Username: "victim", Role: models.RoleUser}

	token, _, err := svc.Issue(user)
	require.NoError(t, err)

	// Flip a character in the payload segment; the signature no longer
	// matches.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	_, err = svc.Validate(strings.Join(parts, "."))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	svc := testTokenService()
	forged := signTestToken(t, "some-other-secret", nil)

	_, err := svc.Validate(forged)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestValidate_WrongIssuerOrAudience(t *testing.T) {
	svc := testTokenService()

	badIssuer := signTestToken(t, testSecret, func(c *auth.Claims) {
		c.Issuer = "somebody-else"
	})
	_, err := svc.Validate(badIssuer)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)

	badAudience := signTestToken(t, testSecret, func(c *auth.Claims) {
		c.Audience = jwt.ClaimStrings{"other-app"}
	})
	_, err = svc.Validate(badAudience)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestValidate_Malformed(t *testing.T) {
	svc := testTokenService()

	for _, raw := range []string{"", "garbage", "a.b", "not a token at all"} {
		_, err := svc.Validate(raw)
		assert.ErrorIs(t, err, shared.ErrTokenMalformed, "input %q", raw)
	}
}

func TestValidate_MissingExpiry(t *testing.T) {
	svc := testTokenService()
	noExp := signTestToken(t, testSecret, func(c *auth.Claims) {
		c.ExpiresAt = nil
	})

	_, err := svc.Validate(noExp)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}
