package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
)

// MockRenderer is a mock implementation of port.DocumentRenderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(title string, rec domain.Record) ([]byte, error) {
	args := m.Called(title, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
