// Package mocks provides mock implementations for signature use case testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// MockSignatureRequestRepository is a mock implementation of SignatureRequestRepository for testing.
type MockSignatureRequestRepository struct {
	mock.Mock
}

// Create mocks the Create method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) Create(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// GetByToken mocks the GetByToken method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) GetByToken(
	ctx context.Context,
	token string,
) (*signatureDomain.SignatureRequest, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.SignatureRequest), args.Error(1)
}

// MarkViewed mocks the MarkViewed method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) MarkViewed(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MarkExpired mocks the MarkExpired method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) MarkExpired(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MarkSigned mocks the MarkSigned method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) MarkSigned(
	ctx context.Context,
	token, signature string,
	signedAt time.Time,
	ipAddress string,
) (bool, error) {
	args := m.Called(ctx, token, signature, signedAt, ipAddress)
	return args.Bool(0), args.Error(1)
}

// AppendAuditEntry mocks the AppendAuditEntry method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) AppendAuditEntry(
	ctx context.Context,
	entry *signatureDomain.AuditEntry,
) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ExpireStale mocks the ExpireStale method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// CountStale mocks the CountStale method of SignatureRequestRepository.
func (m *MockSignatureRequestRepository) CountStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
