// Package mocks provides mock implementations for mail delivery testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pulsecrm/esign/internal/mail"
)

// MockMailer is a mock implementation of Mailer for testing.
type MockMailer struct {
	mock.Mock
}

// Send mocks the Send method of Mailer.
func (m *MockMailer) Send(ctx context.Context, msg *mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
