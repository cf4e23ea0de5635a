package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSubmissionNotice(ctx context.Context, to []string, n port.SubmissionNotice) error {
	args := m.Called(ctx, to, n)
	return args.Error(0)
}

func (m *MockEmailSender) SendBackupNotice(ctx context.Context, to []string, n port.BackupNotice) error {
	args := m.Called(ctx, to, n)
	return args.Error(0)
}
