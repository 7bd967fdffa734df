// filepath: internal/services/mocks/user_mock.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medialocker/internal/config"
	"medialocker/internal/models"
	"medialocker/internal/services"
	"medialocker/internal/services/auth"
)

// MockUserService is a mock implementation of services.UserService
type MockUserService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(username, password string) (*models.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Verify(username, password string) (*models.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int64) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(caller *auth.Claims, page, pageSize int) ([]models.User, int, error) {
	args := m.Called(caller, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) ChangeRole(caller *auth.Claims, targetID int64, role string) (*models.User, error) {
	args := m.Called(caller, targetID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ResetPassword(caller *auth.Claims, targetID int64, newPassword string) error {
	args := m.Called(caller, targetID, newPassword)
	return args.Error(0)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, caller *auth.Claims, targetID int64) error {
	args := m.Called(ctx, caller, targetID)
	return args.Error(0)
}

func (m *MockUserService) EnsureAdmin(cfg *config.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}
