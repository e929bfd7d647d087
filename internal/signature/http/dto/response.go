package dto

import (
	"time"

	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// IssueSignatureResponse represents a newly issued signature request. The
// token is returned alongside the assembled signing URL so callers can build
// their own share links.
type IssueSignatureResponse struct {
	RequestID    string    `json:"request_id"`
	Token        string    `json:"token"`
	SignatureURL string    `json:"signature_url"`
	ExpiresAt    time.Time `json:"expires_at"`
	EmailSent    bool      `json:"email_sent"`
	EmailError   string    `json:"email_error,omitempty"`
}

// MapIssueOutputToResponse converts an issue result to an API response.
func MapIssueOutputToResponse(output *signatureDomain.IssueOutput) IssueSignatureResponse {
	return IssueSignatureResponse{
		RequestID:    output.RequestID,
		Token:        output.Token,
		SignatureURL: output.SignatureURL,
		ExpiresAt:    output.ExpiresAt,
		EmailSent:    output.EmailSent,
		EmailError:   output.EmailError,
	}
}

// SignatureRequestResponse is the public projection of a signature request
// shown on the signing page. The audit trail, signer IP and signature value
// are deliberately excluded: the token holder is not necessarily the signer.
type SignatureRequestResponse struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	DocumentURL  string    `json:"document_url"`
	SignerName   string    `json:"signer_name"`
	SignerEmail  string    `json:"signer_email"`
	RequestedBy  string    `json:"requested_by"`
	RequestedAt  time.Time `json:"requested_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Status       string    `json:"status"`
}

// MapSignatureRequestToResponse converts a domain signature request to its
// public projection.
func MapSignatureRequestToResponse(request *signatureDomain.SignatureRequest) SignatureRequestResponse {
	return SignatureRequestResponse{
		ID:           request.ID,
		DocumentID:   request.DocumentID,
		DocumentName: request.DocumentName,
		DocumentURL:  request.DocumentURL,
		SignerName:   request.SignerName,
		SignerEmail:  request.SignerEmail,
		RequestedBy:  request.RequestedBy,
		RequestedAt:  request.RequestedAt,
		ExpiresAt:    request.ExpiresAt,
		Status:       string(request.Status),
	}
}

// CompleteSignatureResponse represents a successful signing.
type CompleteSignatureResponse struct {
	Message    string    `json:"message"`
	SignedAt   time.Time `json:"signed_at"`
	DocumentID string    `json:"document_id"`
}

// MapCompleteOutputToResponse converts a completion result to an API response.
func MapCompleteOutputToResponse(output *signatureDomain.CompleteOutput) CompleteSignatureResponse {
	return CompleteSignatureResponse{
		Message:    output.Message,
		SignedAt:   output.SignedAt,
		DocumentID: output.DocumentID,
	}
}

// AlreadySignedResponse is the conflict body returned when the document was
// signed before this call.
type AlreadySignedResponse struct {
	Error    string     `json:"error"`
	Message  string     `json:"message"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}
