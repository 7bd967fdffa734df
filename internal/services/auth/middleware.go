// filepath: internal/services/auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medialocker/internal/logging"
	"medialocker/internal/shared"
)

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

type ctxKey int

const claimsKey ctxKey = iota

// WithClaims attaches validated claims to the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the validated claims set by the auth
// middleware, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// Middleware provides authentication and authorization middleware.
type Middleware struct {
	Token TokenService
}

// NewMiddleware creates a new instance of Middleware.
func NewMiddleware(token TokenService) *Middleware {
	return &Middleware{Token: token}
}

// RequireAuth checks for a valid Bearer token in the Authorization
// header and stores the claims in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.Token.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			m.rejectToken(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireMediaAuth is RequireAuth plus an access_token query parameter
// fallback. Browsers cannot set headers on <img> requests, so direct
// media links carry the token in the URL. The fallback exists only on
// media file routes; the Authorization header still wins when present.
func (m *Middleware) RequireMediaAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		authHeader := r.Header.Get("Authorization")
		switch {
		case strings.HasPrefix(authHeader, "Bearer "):
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		case authHeader == "":
			tokenString = r.URL.Query().Get("access_token")
		}
		if tokenString == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization required")
			return
		}

		claims, err := m.Token.Validate(tokenString)
		if err != nil {
			m.rejectToken(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin checks that the already-authenticated caller has the
// Admin role. It must be chained after RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			logging.Log.Warnf("RequireAdmin: no claims in context for %s", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		if !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	logging.Log.Warnf("auth: rejected token for %s: %v", r.URL.Path, err)
	if errors.Is(err, shared.ErrTokenExpired) {
		writeError(w, http.StatusUnauthorized, "Token expired")
		return
	}
	writeError(w, http.StatusUnauthorized, "Invalid token")
}
