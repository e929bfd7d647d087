// Package domain defines the core signature request entities and types.
package domain

import (
	"time"
)

// Status represents the lifecycle state of a signature request.
type Status string

const (
	// StatusPending indicates the request was issued but the signer has not opened it.
	StatusPending Status = "pending"
	// StatusViewed indicates the signer opened the signing page at least once.
	StatusViewed Status = "viewed"
	// StatusSigned is the terminal state after a successful signing.
	StatusSigned Status = "signed"
	// StatusExpired indicates the validity window passed before signing.
	StatusExpired Status = "expired"
)

// SignatureRequest represents an outstanding ask for one named signer to
// electronically sign one document, bounded by a fixed validity window.
//
// The Token is the sole external identifier: a high-entropy capability string
// embedded in the signing URL. The internal ID is never exposed in URLs.
type SignatureRequest struct {
	ID             string
	Token          string
	DocumentID     string
	DocumentName   string
	DocumentURL    string
	DocumentSHA256 string
	SignerName     string
	SignerEmail    string
	RequestedBy    string
	RequestedAt    time.Time
	ExpiresAt      time.Time
	Status         Status
	Signature      string
	SignedAt       *time.Time
	IPAddress      string
	AuditTrail     []AuditEntry
}

// IsExpired reports whether the validity window has passed at the given instant.
// Expiry is a property of the clock, not of the stored status: a request whose
// stored status is still "pending" is expired once now > ExpiresAt.
func (r *SignatureRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// EffectiveStatus returns the status with the expiry overlay applied. A signed
// request never regresses; any other stored status reads as expired once the
// window has passed.
func (r *SignatureRequest) EffectiveStatus(now time.Time) Status {
	if r.Status != StatusSigned && r.IsExpired(now) {
		return StatusExpired
	}
	return r.Status
}
