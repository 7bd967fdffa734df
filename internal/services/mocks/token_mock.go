// filepath: internal/services/mocks/token_mock.go
package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"medialocker/internal/models"
	"medialocker/internal/services/auth"
)

// MockTokenService is a mock implementation of auth.TokenService
type MockTokenService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) Issue(user *models.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) Validate(tokenString string) (*auth.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}
