package domain

import (
	"time"
)

// IssueInput carries the parameters for creating a signature request.
// IPAddress is the issuing requester's observed IP, recorded in the audit trail.
type IssueInput struct {
	DocumentID   string
	DocumentName string
	DocumentURL  string
	SignerEmail  string
	SignerName   string
	RequestedBy  string
	Message      string
	IPAddress    string
}

// IssueOutput is the result of creating a signature request. EmailSent is
// false when the notification could not be delivered; the SignatureURL is
// returned regardless so the caller can share the link through another channel.
type IssueOutput struct {
	RequestID    string
	Token        string
	SignatureURL string
	ExpiresAt    time.Time
	EmailSent    bool
	EmailError   string
}

// CompleteInput carries a signature submission. Consent must be explicitly
// true for the submission to be valid.
type CompleteInput struct {
	Token     string
	Signature string
	Consent   bool
	IPAddress string
	UserAgent string
}

// CompleteOutput is the result of a successful signing.
type CompleteOutput struct {
	Message    string
	SignedAt   time.Time
	DocumentID string
}

// ViewInput carries the context of a signer opening a signature request.
type ViewInput struct {
	Token     string
	IPAddress string
	UserAgent string
}
