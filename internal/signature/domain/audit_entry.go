package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit trail actions. The strings are part of the persisted record and of the
// confirmation email body, so they are fixed here rather than built ad hoc.
const (
	ActionCreated           = "Signature request created"
	ActionEmailSent         = "Signature request email sent"
	ActionLinkGenerated     = "Signature request created (link generated)"
	ActionViewed            = "Document viewed by signer"
	ActionSigned            = "Document signed"
	ActionConfirmationsSent = "Confirmation emails sent"
)

// AuditEntry records one action taken against a signature request. Entries are
// append-only and ordered by Position; they are kept for compliance/legal
// evidentiary purposes and are never mutated after insertion.
type AuditEntry struct {
	ID        uuid.UUID
	RequestID string
	Position  int
	Action    string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// NewAuditEntry builds an audit entry for the given request and action.
// Position is assigned by the repository on insert.
func NewAuditEntry(requestID, action, ipAddress, userAgent string, at time.Time) AuditEntry {
	return AuditEntry{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: requestID,
		Action:    action,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: at,
	}
}
