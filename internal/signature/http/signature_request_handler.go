// Package http provides HTTP handlers for the signature request lifecycle:
// issuing requests, serving the signing page data, and applying signatures.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pulsecrm/esign/internal/errors"
	"github.com/pulsecrm/esign/internal/httputil"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
	"github.com/pulsecrm/esign/internal/signature/http/dto"
	signatureUseCase "github.com/pulsecrm/esign/internal/signature/usecase"
	customValidation "github.com/pulsecrm/esign/internal/validation"
)

// SignatureRequestHandler handles HTTP requests for signature request operations.
type SignatureRequestHandler struct {
	useCase signatureUseCase.SignatureRequestUseCase
	logger  *slog.Logger
}

// NewSignatureRequestHandler creates a new signature request handler with required dependencies.
func NewSignatureRequestHandler(
	useCase signatureUseCase.SignatureRequestUseCase,
	logger *slog.Logger,
) *SignatureRequestHandler {
	return &SignatureRequestHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// IssueHandler creates a new signature request and emails the signing link.
// POST /v1/signature-requests
// Returns 200 OK with the request id and signing URL; email delivery failure
// is reported in the body, not as an error status.
func (h *SignatureRequestHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueSignatureRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.useCase.Issue(c.Request.Context(), req.ToInput(c.ClientIP()))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssueOutputToResponse(output))
}

// GetHandler returns the public projection of a signature request for the
// signing page. GET /v1/signature-requests/:token
// Returns 404 for unknown tokens, 410 once the window has passed, and 409
// (with signed_at) when the document was already signed.
func (h *SignatureRequestHandler) GetHandler(c *gin.Context) {
	input := signatureDomain.ViewInput{
		Token:     c.Param("token"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	request, err := h.useCase.Get(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSignatureRequestToResponse(request))
}

// CompleteHandler applies a signature to the request.
// POST /v1/signature-requests/:token/complete
// Returns 200 OK on success; 400/404/410/409 on guard failures.
func (h *SignatureRequestHandler) CompleteHandler(c *gin.Context) {
	var req dto.CompleteSignatureRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := req.ToInput(c.Param("token"), c.ClientIP(), c.Request.UserAgent())
	output, err := h.useCase.Complete(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCompleteOutputToResponse(output))
}

// handleError maps lifecycle errors to responses, enriching the conflict body
// with the recorded signing timestamp when available.
func (h *SignatureRequestHandler) handleError(c *gin.Context, err error) {
	var alreadySigned *signatureDomain.AlreadySignedError
	if apperrors.As(err, &alreadySigned) {
		c.JSON(http.StatusConflict, dto.AlreadySignedResponse{
			Error:    "conflict",
			Message:  "This document has already been signed",
			SignedAt: alreadySigned.SignedAt,
		})
		return
	}

	httputil.HandleErrorGin(c, err, h.logger)
}
