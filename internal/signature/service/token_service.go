package service

import (
	"crypto/rand"
	"encoding/hex"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// tokenService implements TokenService using crypto/rand with hex encoding.
type tokenService struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token
// (256 bits of entropy, 64 lowercase hex characters). The token is the sole
// external access key for a signature request, so collision handling beyond
// its entropy is unnecessary.
func (t *tokenService) GenerateToken() (string, error) {
	return randomHex(32)
}

// GenerateRequestID creates a new 16-byte random request id
// (32 lowercase hex characters). Generated independently from the token so the
// internal id is never derivable from the signing URL.
func (t *tokenService) GenerateRequestID() (string, error) {
	return randomHex(16)
}

// randomHex returns n random bytes hex-encoded.
func randomHex(n int) (string, error) {
	randomBytes := make([]byte, n)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random bytes")
	}
	return hex.EncodeToString(randomBytes), nil
}

// NewTokenService creates a new TokenService instance.
func NewTokenService() TokenService {
	return &tokenService{}
}
