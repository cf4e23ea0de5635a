package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

// MockPublisher is a mock implementation of port.SubmissionPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, sub *domain.Submission) (*port.PublishResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PublishResult), args.Error(1)
}
