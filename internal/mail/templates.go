package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// SignatureRequestData feeds the initial signature request email.
type SignatureRequestData struct {
	SignerName   string
	RequestedBy  string
	DocumentName string
	Message      string
	SignatureURL string
	RequestedAt  time.Time
	SupportEmail string
}

// AuditLine is one rendered audit trail entry in a confirmation email.
type AuditLine struct {
	Action    string
	Timestamp time.Time
}

// SignerConfirmationData feeds the confirmation email sent to the signer.
type SignerConfirmationData struct {
	SignerName   string
	DocumentName string
	SignedAt     time.Time
	DocumentID   string
	AuditTrail   []AuditLine
}

// RequesterConfirmationData feeds the shorter notification sent to the requester.
type RequesterConfirmationData struct {
	SignerName   string
	DocumentName string
	SignedAt     time.Time
}

var templateFuncs = template.FuncMap{
	"longDate": func(t time.Time) string {
		return t.Format("Monday, January 2, 2006")
	},
	"dateTime": func(t time.Time) string {
		return t.Format("January 2, 2006 3:04:05 PM MST")
	},
	"year": func(t time.Time) string {
		return t.Format("2006")
	},
}

var signatureRequestTmpl = template.Must(template.New("signature_request").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Document Signature Request</title>
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #ffffff; padding: 40px 30px; text-align: center; }
    .content { padding: 40px 30px; }
    .document-info { background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 20px; margin: 25px 0; border-radius: 4px; }
    .button { display: inline-block; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #ffffff; padding: 16px 40px; text-decoration: none; border-radius: 6px; font-weight: 600; margin: 25px 0; }
    .security-notice { background-color: #fff3cd; border: 1px solid #ffeaa7; color: #856404; padding: 15px; border-radius: 6px; margin: 20px 0; font-size: 14px; }
    .expiry-notice { color: #dc3545; font-weight: 600; margin-top: 15px; }
    .footer { background-color: #f8f9fa; text-align: center; padding: 25px; color: #6c757d; font-size: 13px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1 style="margin: 0; font-size: 28px;">Signature Request</h1>
      <p style="margin: 10px 0 0 0; opacity: 0.9;">PulseCRM Document Management</p>
    </div>
    <div class="content">
      <p style="font-size: 16px; color: #333;">Hello {{.SignerName}},</p>
      <p style="font-size: 15px; color: #555;">{{.RequestedBy}} has requested your signature on the following document:</p>
      <div class="document-info">
        <div style="font-size: 18px; font-weight: 600; color: #333;">{{.DocumentName}}</div>
        <div style="color: #6c757d; font-size: 14px;">Requested on: {{longDate .RequestedAt}}</div>
      </div>
      {{if .Message}}
      <div style="background-color: #f0f8ff; border-left: 4px solid #0066cc; padding: 15px; margin: 20px 0; border-radius: 4px;">
        <strong style="color: #0066cc;">Message from {{.RequestedBy}}:</strong>
        <p style="margin: 10px 0 0 0; color: #333;">{{.Message}}</p>
      </div>
      {{end}}
      <div style="text-align: center;">
        <a href="{{.SignatureURL}}" class="button">Review &amp; Sign Document</a>
      </div>
      <div class="security-notice">
        <strong>Security Notice:</strong><br>
        This signature request is secure and legally binding. An audit trail of all actions
        will be maintained for compliance purposes.
      </div>
      <p class="expiry-notice">This signature request will expire in 7 days</p>
    </div>
    <div class="footer">
      <p style="margin: 0 0 10px 0;">This email was sent by PulseCRM Document Management System</p>
      <p style="margin: 0;">If you have questions, please contact <a href="mailto:{{.SupportEmail}}">support</a></p>
      <p style="margin: 15px 0 0 0; font-size: 12px; color: #999;">&copy; {{year .RequestedAt}} PulseCRM. All rights reserved.</p>
    </div>
  </div>
</body>
</html>
`))

var signerConfirmationTmpl = template.Must(template.New("signer_confirmation").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; background-color: #f5f5f5; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 30px; }
    .header { background-color: #28a745; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .details { background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .footer { text-align: center; color: #6c757d; font-size: 12px; padding: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Document Signed Successfully</h1>
    </div>
    <div class="content">
      <p>Hello {{.SignerName}},</p>
      <p>You have successfully signed the following document:</p>
      <div class="details">
        <strong>Document:</strong> {{.DocumentName}}<br>
        <strong>Signed on:</strong> {{dateTime .SignedAt}}<br>
        <strong>Document ID:</strong> {{.DocumentID}}
      </div>
      <p>A copy of the signed document is attached to this email for your records.</p>
      <p><strong>Audit Trail:</strong></p>
      <ul>
        {{range .AuditTrail}}<li>{{.Action}} - {{dateTime .Timestamp}}</li>
        {{end}}
      </ul>
    </div>
    <div class="footer">
      <p>This is a legally binding electronic signature.</p>
      <p>&copy; {{year .SignedAt}} PulseCRM. All rights reserved.</p>
    </div>
  </div>
</body>
</html>
`))

var requesterConfirmationTmpl = template.Must(template.New("requester_confirmation").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; }
    .container { max-width: 600px; margin: 0 auto; padding: 30px; }
    .header { background-color: #28a745; color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Document Signature Completed</h1>
    </div>
    <div class="content">
      <p><strong>{{.SignerName}}</strong> has signed the document:</p>
      <p><strong>{{.DocumentName}}</strong></p>
      <p>Signed on: {{dateTime .SignedAt}}</p>
      <p>The signed document is attached.</p>
    </div>
  </div>
</body>
</html>
`))

// RenderSignatureRequest renders the initial signature request email.
func RenderSignatureRequest(data SignatureRequestData) (subject, html string, err error) {
	var sb strings.Builder
	if err := signatureRequestTmpl.Execute(&sb, data); err != nil {
		return "", "", apperrors.Wrap(err, "failed to render signature request email")
	}
	return fmt.Sprintf("Signature Requested: %s", data.DocumentName), sb.String(), nil
}

// RenderSignerConfirmation renders the confirmation email sent to the signer.
func RenderSignerConfirmation(data SignerConfirmationData) (subject, html string, err error) {
	var sb strings.Builder
	if err := signerConfirmationTmpl.Execute(&sb, data); err != nil {
		return "", "", apperrors.Wrap(err, "failed to render signer confirmation email")
	}
	return fmt.Sprintf("Document Signed: %s", data.DocumentName), sb.String(), nil
}

// RenderRequesterConfirmation renders the notification email sent to the requester.
func RenderRequesterConfirmation(data RequesterConfirmationData) (subject, html string, err error) {
	var sb strings.Builder
	if err := requesterConfirmationTmpl.Execute(&sb, data); err != nil {
		return "", "", apperrors.Wrap(err, "failed to render requester confirmation email")
	}
	return fmt.Sprintf("Signature Completed: %s", data.DocumentName), sb.String(), nil
}
