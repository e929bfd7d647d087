// Package service provides supporting services for the signature request
// lifecycle: capability token generation and PDF stamping.
package service

import (
	"time"
)

// TokenService generates the identifiers of a signature request.
type TokenService interface {
	// GenerateToken creates the external-facing capability token:
	// 32 cryptographically random bytes, lowercase hex encoded (64 chars).
	GenerateToken() (string, error)
	// GenerateRequestID creates the internal request id:
	// 16 cryptographically random bytes, lowercase hex encoded (32 chars).
	GenerateRequestID() (string, error)
}

// SignatureBlock holds the attribution stamped onto the signed document.
type SignatureBlock struct {
	Signature  string
	SignedAt   time.Time
	IPAddress  string
	DocumentID string
}

// PDFStamper bakes a visual signature block into the last page of a PDF.
type PDFStamper interface {
	// Stamp returns a new PDF with the signature block drawn near the bottom
	// of the last page. The page count of the input is preserved.
	Stamp(pdf []byte, block SignatureBlock) ([]byte, error)
}
