package mail

import (
	"context"

	"github.com/resend/resend-go/v2"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// resendMailer implements Mailer using the Resend transactional email API.
type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a Mailer backed by the Resend API.
func NewResendMailer(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send delivers a single message through the Resend API.
func (r *resendMailer) Send(ctx context.Context, msg *Message) error {
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	for _, att := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return apperrors.Wrap(err, "failed to send email via resend")
	}
	return nil
}
