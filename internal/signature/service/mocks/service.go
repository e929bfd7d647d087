// Package mocks provides mock implementations for signature service testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	signatureService "github.com/pulsecrm/esign/internal/signature/service"
)

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of TokenService.
func (m *MockTokenService) GenerateToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// GenerateRequestID mocks the GenerateRequestID method of TokenService.
func (m *MockTokenService) GenerateRequestID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// MockPDFStamper is a mock implementation of PDFStamper for testing.
type MockPDFStamper struct {
	mock.Mock
}

// Stamp mocks the Stamp method of PDFStamper.
func (m *MockPDFStamper) Stamp(pdf []byte, block signatureService.SignatureBlock) ([]byte, error) {
	args := m.Called(pdf, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
