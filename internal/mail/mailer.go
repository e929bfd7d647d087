// Package mail provides outgoing transactional email for the signature
// workflow. Delivery is always best-effort from the caller's point of view:
// state transitions never roll back because a notification failed.
package mail

import (
	"context"
)

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outgoing HTML email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
