// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
	customValidation "github.com/pulsecrm/esign/internal/validation"
)

// IssueSignatureRequest contains the parameters for creating a signature request.
type IssueSignatureRequest struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	DocumentURL  string `json:"document_url"`
	SignerEmail  string `json:"signer_email"`
	SignerName   string `json:"signer_name"`
	// RequestedBy is optional; a default display name is applied when empty.
	RequestedBy string `json:"requested_by"`
	Message     string `json:"message"`
}

// Validate checks if the issue signature request is valid.
func (r *IssueSignatureRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.DocumentName, validation.Required, customValidation.NotBlank),
		validation.Field(&r.DocumentURL, validation.Required, customValidation.NotBlank),
		validation.Field(&r.SignerEmail, validation.Required, customValidation.Email),
		validation.Field(&r.SignerName, validation.Required, customValidation.NotBlank),
	)
}

// ToInput converts the request into a domain IssueInput. The requester IP is
// taken from the connection, not the body.
func (r *IssueSignatureRequest) ToInput(ipAddress string) signatureDomain.IssueInput {
	return signatureDomain.IssueInput{
		DocumentID:   r.DocumentID,
		DocumentName: r.DocumentName,
		DocumentURL:  r.DocumentURL,
		SignerEmail:  r.SignerEmail,
		SignerName:   r.SignerName,
		RequestedBy:  r.RequestedBy,
		Message:      r.Message,
		IPAddress:    ipAddress,
	}
}

// CompleteSignatureRequest contains a signature submission.
type CompleteSignatureRequest struct {
	Signature string `json:"signature"`
	Consent   bool   `json:"consent"`
}

// Validate checks if the signature submission is valid. Consent must be
// explicitly true.
func (r *CompleteSignatureRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Signature, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Consent,
			validation.In(true).ErrorObject(
				validation.NewError("validation_consent", "must be accepted"),
			),
		),
	)
}

// ToInput converts the submission into a domain CompleteInput.
func (r *CompleteSignatureRequest) ToInput(token, ipAddress, userAgent string) signatureDomain.CompleteInput {
	return signatureDomain.CompleteInput{
		Token:     token,
		Signature: r.Signature,
		Consent:   r.Consent,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}
