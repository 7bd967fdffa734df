// filepath: internal/services/mocks/store_mock.go
package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"

	"medialocker/internal/services"
)

// MockMediaStore is a mock implementation of services.MediaStore
type MockMediaStore struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.MediaStore = (*MockMediaStore)(nil)

func (m *MockMediaStore) Save(fileData io.Reader, originalName string) (string, int64, error) {
	args := m.Called(fileData, originalName)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockMediaStore) Open(relPath string) (io.ReadCloser, error) {
	args := m.Called(relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockMediaStore) Remove(relPath string) bool {
	args := m.Called(relPath)
	return args.Bool(0)
}
