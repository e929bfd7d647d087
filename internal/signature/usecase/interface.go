// Package usecase defines the interfaces and implementations for the signature
// request lifecycle. Use cases orchestrate repositories, the token and PDF
// stamping services, document access and email delivery to implement issuance,
// viewing and completion of signature requests.
package usecase

import (
	"context"
	"time"

	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// SignatureRequestRepository defines the interface for SignatureRequest persistence operations.
type SignatureRequestRepository interface {
	Create(ctx context.Context, request *signatureDomain.SignatureRequest) error
	GetByToken(ctx context.Context, token string) (*signatureDomain.SignatureRequest, error)
	// MarkViewed transitions a pending request to viewed. Returns true when the
	// call performed the transition.
	MarkViewed(ctx context.Context, token string) (bool, error)
	// MarkExpired persists the expired status. Idempotent; signed requests are
	// left untouched.
	MarkExpired(ctx context.Context, token string) error
	// MarkSigned transitions a pending or viewed request to signed. Returns
	// true when the call won the transition.
	MarkSigned(ctx context.Context, token, signature string, signedAt time.Time, ipAddress string) (bool, error)
	AppendAuditEntry(ctx context.Context, entry *signatureDomain.AuditEntry) error
	// ExpireStale marks every request whose window passed before now as expired
	// and returns the number of transitioned rows.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	// CountStale returns how many requests ExpireStale would transition.
	CountStale(ctx context.Context, now time.Time) (int64, error)
}

// SignatureRequestUseCase defines the interface for signature request business logic.
type SignatureRequestUseCase interface {
	// Issue creates a signature request, records the creation in the audit
	// trail and emails the signing link to the signer. Email delivery failure
	// is not fatal: the request is still issued and the signing URL returned.
	Issue(ctx context.Context, input signatureDomain.IssueInput) (*signatureDomain.IssueOutput, error)
	// Get loads a signature request for signer review. Expired requests are
	// persisted as expired and rejected; the first view of a pending request
	// is recorded in the audit trail.
	Get(ctx context.Context, input signatureDomain.ViewInput) (*signatureDomain.SignatureRequest, error)
	// Complete applies the signature: the source document is fetched, stamped
	// with the signature block and stored as a new artifact, the request is
	// atomically transitioned to signed and confirmation emails are sent.
	Complete(ctx context.Context, input signatureDomain.CompleteInput) (*signatureDomain.CompleteOutput, error)
	// ExpireStale persists the expired status for every request whose signing
	// window has passed.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	// CountStale reports how many requests ExpireStale would transition.
	CountStale(ctx context.Context, now time.Time) (int64, error)
}
