package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSheetSource is a mock implementation of port.SheetSource.
type MockSheetSource struct {
	mock.Mock
}

func (m *MockSheetSource) Rows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}
