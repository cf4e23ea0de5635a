package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

// MockTableSource is a mock implementation of port.TableSource.
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTableSource) Rows(ctx context.Context) ([]port.TableRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.TableRow), args.Error(1)
}

func (m *MockTableSource) UpdateRow(ctx context.Context, index int, values []string) error {
	args := m.Called(ctx, index, values)
	return args.Error(0)
}
