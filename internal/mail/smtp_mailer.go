package mail

import (
	"bytes"
	"context"

	gomail "github.com/wneessen/go-mail"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// smtpMailer implements Mailer over SMTP using wneessen/go-mail.
type smtpMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a Mailer that delivers through the configured SMTP server.
func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

// Send delivers a single message. A new connection is dialed per message;
// signature traffic is low-volume so pooling is not worth the complexity.
func (s *smtpMailer) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return apperrors.Wrap(err, "invalid from address")
	}
	if err := m.To(msg.To); err != nil {
		return apperrors.Wrap(err, "invalid recipient address")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	for _, att := range msg.Attachments {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content)); err != nil {
			return apperrors.Wrap(err, "failed to attach file")
		}
	}

	client, err := gomail.NewClient(
		s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return apperrors.Wrap(err, "failed to send email")
	}
	return nil
}
