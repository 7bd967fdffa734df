// filepath: internal/services/mocks/image_mock.go
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"medialocker/internal/models"
	"medialocker/internal/services"
	"medialocker/internal/services/auth"
)

// MockImageService is a mock implementation of services.ImageService
type MockImageService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.ImageService = (*MockImageService)(nil)

func (m *MockImageService) Upload(caller *auth.Claims, file io.Reader, originalName string) (*models.Image, error) {
	args := m.Called(caller, file, originalName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) ListOwn(caller *auth.Claims, page, pageSize int) ([]services.OwnedImage, int, error) {
	args := m.Called(caller, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]services.OwnedImage), args.Int(1), args.Error(2)
}

func (m *MockImageService) Filenames(caller *auth.Claims) ([]string, error) {
	args := m.Called(caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockImageService) ByFilename(caller *auth.Claims, name string) ([]services.OwnedImage, error) {
	args := m.Called(caller, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.OwnedImage), args.Error(1)
}

func (m *MockImageService) OpenFile(caller *auth.Claims, id int64) (io.ReadCloser, *models.Image, error) {
	args := m.Called(caller, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var img *models.Image
	if args.Get(1) != nil {
		img = args.Get(1).(*models.Image)
	}
	return rc, img, args.Error(2)
}

func (m *MockImageService) OpenPublic(id int64) (io.ReadCloser, *models.Image, error) {
	args := m.Called(id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var img *models.Image
	if args.Get(1) != nil {
		img = args.Get(1).(*models.Image)
	}
	return rc, img, args.Error(2)
}

func (m *MockImageService) Delete(ctx context.Context, caller *auth.Claims, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockImageService) ToggleFavourite(caller *auth.Claims, id int64) (bool, error) {
	args := m.Called(caller, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockImageService) AdminList(caller *auth.Claims, page, pageSize int) ([]models.AdminImage, int, error) {
	args := m.Called(caller, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.AdminImage), args.Int(1), args.Error(2)
}

func (m *MockImageService) AdminBatchDelete(ctx context.Context, caller *auth.Claims, ids []int64) (int, error) {
	args := m.Called(ctx, caller, ids)
	return args.Int(0), args.Error(1)
}
