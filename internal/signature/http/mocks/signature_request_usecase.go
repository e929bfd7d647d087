// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// MockSignatureRequestUseCase is a mock implementation of SignatureRequestUseCase for testing.
type MockSignatureRequestUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of SignatureRequestUseCase.
func (m *MockSignatureRequestUseCase) Issue(
	ctx context.Context,
	input signatureDomain.IssueInput,
) (*signatureDomain.IssueOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.IssueOutput), args.Error(1)
}

// Get mocks the Get method of SignatureRequestUseCase.
func (m *MockSignatureRequestUseCase) Get(
	ctx context.Context,
	input signatureDomain.ViewInput,
) (*signatureDomain.SignatureRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.SignatureRequest), args.Error(1)
}

// Complete mocks the Complete method of SignatureRequestUseCase.
func (m *MockSignatureRequestUseCase) Complete(
	ctx context.Context,
	input signatureDomain.CompleteInput,
) (*signatureDomain.CompleteOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.CompleteOutput), args.Error(1)
}

// ExpireStale mocks the ExpireStale method of SignatureRequestUseCase.
func (m *MockSignatureRequestUseCase) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// CountStale mocks the CountStale method of SignatureRequestUseCase.
func (m *MockSignatureRequestUseCase) CountStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
