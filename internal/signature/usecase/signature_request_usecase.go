// Package usecase implements business logic orchestration for the signature
// request lifecycle: issuance with email notification, signer viewing with
// lazy expiry, and signing completion with PDF stamping and confirmations.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsecrm/esign/internal/database"
	"github.com/pulsecrm/esign/internal/document"
	apperrors "github.com/pulsecrm/esign/internal/errors"
	"github.com/pulsecrm/esign/internal/mail"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
	signatureService "github.com/pulsecrm/esign/internal/signature/service"
)

// defaultRequestedBy is the requester display name used when the issuance
// request does not name one.
const defaultRequestedBy = "PulseCRM User"

// Config carries the issuance parameters for signature requests.
type Config struct {
	// BaseURL is the public base URL embedded in signing links.
	BaseURL string
	// NotificationEmail receives the requester-side completion notification.
	// Empty disables it.
	NotificationEmail string
	// Expiration is the length of the signing window.
	Expiration time.Duration
}

// signatureRequestUseCase implements the SignatureRequestUseCase interface.
type signatureRequestUseCase struct {
	txManager     database.TxManager
	requestRepo   SignatureRequestRepository
	tokenService  signatureService.TokenService
	stamper       signatureService.PDFStamper
	fetcher       document.Fetcher
	artifactStore document.ArtifactStore
	mailer        mail.Mailer
	logger        *slog.Logger
	config        Config
}

// Issue creates a signature request and emails the signing link to the signer.
func (s *signatureRequestUseCase) Issue(
	ctx context.Context,
	input signatureDomain.IssueInput,
) (*signatureDomain.IssueOutput, error) {
	token, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}
	requestID, err := s.tokenService.GenerateRequestID()
	if err != nil {
		return nil, err
	}

	requestedBy := strings.TrimSpace(input.RequestedBy)
	if requestedBy == "" {
		requestedBy = defaultRequestedBy
	}

	now := time.Now().UTC()
	request := &signatureDomain.SignatureRequest{
		ID:           requestID,
		Token:        token,
		DocumentID:   input.DocumentID,
		DocumentName: input.DocumentName,
		DocumentURL:  input.DocumentURL,
		SignerName:   input.SignerName,
		SignerEmail:  input.SignerEmail,
		RequestedBy:  requestedBy,
		RequestedAt:  now,
		ExpiresAt:    now.Add(s.config.Expiration),
		Status:       signatureDomain.StatusPending,
	}

	// Pin the content the signer will review. Best effort: issuance proceeds
	// without the pin when the document store is briefly unavailable, and the
	// completion-time check is skipped.
	if data, fetchErr := s.fetcher.Fetch(ctx, input.DocumentURL); fetchErr != nil {
		s.logger.Warn("failed to pin document content at issuance",
			slog.String("document_id", input.DocumentID),
			slog.Any("error", fetchErr),
		)
	} else {
		request.DocumentSHA256 = document.ContentHash(data)
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, request); err != nil {
			return err
		}
		entry := signatureDomain.NewAuditEntry(
			request.ID,
			signatureDomain.ActionCreated,
			input.IPAddress,
			"",
			now,
		)
		return s.requestRepo.AppendAuditEntry(txCtx, &entry)
	})
	if err != nil {
		return nil, err
	}

	signatureURL := fmt.Sprintf("%s/sign/%s", strings.TrimSuffix(s.config.BaseURL, "/"), token)

	output := &signatureDomain.IssueOutput{
		RequestID:    request.ID,
		Token:        request.Token,
		SignatureURL: signatureURL,
		ExpiresAt:    request.ExpiresAt,
	}

	// Delivery failure is not fatal: the request stands and the signing URL is
	// returned so the link can be shared through another channel.
	emailAction := signatureDomain.ActionLinkGenerated
	if s.mailer != nil {
		if sendErr := s.sendSignatureRequestEmail(ctx, request, signatureURL, input.Message); sendErr != nil {
			s.logger.Warn("failed to send signature request email",
				slog.String("request_id", request.ID),
				slog.Any("error", sendErr),
			)
			output.EmailError = sendErr.Error()
		} else {
			output.EmailSent = true
			emailAction = signatureDomain.ActionEmailSent
		}
	}

	entry := signatureDomain.NewAuditEntry(request.ID, emailAction, input.IPAddress, "", time.Now().UTC())
	if auditErr := s.requestRepo.AppendAuditEntry(ctx, &entry); auditErr != nil {
		s.logger.Warn("failed to record email delivery audit entry",
			slog.String("request_id", request.ID),
			slog.Any("error", auditErr),
		)
	}

	return output, nil
}

// Get loads a signature request for signer review, applying the expiry overlay
// and recording the first view in the audit trail.
func (s *signatureRequestUseCase) Get(
	ctx context.Context,
	input signatureDomain.ViewInput,
) (*signatureDomain.SignatureRequest, error) {
	request, err := s.requestRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch request.EffectiveStatus(now) {
	case signatureDomain.StatusExpired:
		if request.Status != signatureDomain.StatusExpired {
			if err := s.requestRepo.MarkExpired(ctx, input.Token); err != nil {
				return nil, err
			}
		}
		return nil, signatureDomain.ErrRequestExpired
	case signatureDomain.StatusSigned:
		return nil, &signatureDomain.AlreadySignedError{SignedAt: request.SignedAt}
	}

	if request.Status == signatureDomain.StatusPending {
		var transitioned bool
		err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
			var txErr error
			transitioned, txErr = s.requestRepo.MarkViewed(txCtx, input.Token)
			if txErr != nil || !transitioned {
				return txErr
			}
			entry := signatureDomain.NewAuditEntry(
				request.ID,
				signatureDomain.ActionViewed,
				input.IPAddress,
				input.UserAgent,
				now,
			)
			return s.requestRepo.AppendAuditEntry(txCtx, &entry)
		})
		if err != nil {
			return nil, err
		}
		if transitioned {
			request.Status = signatureDomain.StatusViewed
		}
	}

	return request, nil
}

// Complete applies the signature, stamps the document and sends confirmations.
func (s *signatureRequestUseCase) Complete(
	ctx context.Context,
	input signatureDomain.CompleteInput,
) (*signatureDomain.CompleteOutput, error) {
	if strings.TrimSpace(input.Signature) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signature is required")
	}
	if !input.Consent {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "consent is required")
	}

	request, err := s.requestRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch request.EffectiveStatus(now) {
	case signatureDomain.StatusExpired:
		if request.Status != signatureDomain.StatusExpired {
			if err := s.requestRepo.MarkExpired(ctx, input.Token); err != nil {
				return nil, err
			}
		}
		return nil, signatureDomain.ErrRequestExpired
	case signatureDomain.StatusSigned:
		return nil, &signatureDomain.AlreadySignedError{SignedAt: request.SignedAt}
	}

	signedAt := now
	signedEntry := signatureDomain.NewAuditEntry(
		request.ID,
		signatureDomain.ActionSigned,
		input.IPAddress,
		input.UserAgent,
		signedAt,
	)

	var transitioned bool
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		transitioned, txErr = s.requestRepo.MarkSigned(
			txCtx,
			input.Token,
			input.Signature,
			signedAt,
			input.IPAddress,
		)
		if txErr != nil || !transitioned {
			return txErr
		}
		return s.requestRepo.AppendAuditEntry(txCtx, &signedEntry)
	})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// A concurrent completion won the race; report the recorded timestamp.
		current, getErr := s.requestRepo.GetByToken(ctx, input.Token)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &signatureDomain.AlreadySignedError{SignedAt: current.SignedAt}
	}

	request.Status = signatureDomain.StatusSigned
	request.Signature = input.Signature
	request.SignedAt = &signedAt
	request.IPAddress = input.IPAddress
	request.AuditTrail = append(request.AuditTrail, signedEntry)

	stamped, err := s.stampDocument(ctx, request, signedAt, input.IPAddress)
	if err != nil {
		// The signature is already recorded; the caller sees the upstream
		// failure and can retry artifact generation out of band.
		return nil, err
	}

	s.storeSignedArtifact(ctx, request, stamped)
	s.sendConfirmationEmails(ctx, request, stamped)

	return &signatureDomain.CompleteOutput{
		Message:    "Document signed successfully",
		SignedAt:   signedAt,
		DocumentID: request.DocumentID,
	}, nil
}

// ExpireStale persists the expired status for every request whose window has passed.
func (s *signatureRequestUseCase) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return s.requestRepo.ExpireStale(ctx, now)
}

// CountStale reports how many requests ExpireStale would transition.
func (s *signatureRequestUseCase) CountStale(ctx context.Context, now time.Time) (int64, error) {
	return s.requestRepo.CountStale(ctx, now)
}

// sendSignatureRequestEmail renders and delivers the initial signing-link email.
func (s *signatureRequestUseCase) sendSignatureRequestEmail(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
	signatureURL string,
	message string,
) error {
	subject, html, err := mail.RenderSignatureRequest(mail.SignatureRequestData{
		SignerName:   request.SignerName,
		RequestedBy:  request.RequestedBy,
		DocumentName: request.DocumentName,
		Message:      message,
		SignatureURL: signatureURL,
		RequestedAt:  request.RequestedAt,
		SupportEmail: s.config.NotificationEmail,
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, &mail.Message{
		To:      request.SignerEmail,
		Subject: subject,
		HTML:    html,
	})
}

// stampDocument fetches the source PDF, verifies the pinned content hash and
// applies the signature block to the last page.
func (s *signatureRequestUseCase) stampDocument(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
	signedAt time.Time,
	ipAddress string,
) ([]byte, error) {
	data, err := s.fetcher.Fetch(ctx, request.DocumentURL)
	if err != nil {
		return nil, signatureDomain.ErrDocumentUnavailable
	}

	if request.DocumentSHA256 != "" && document.ContentHash(data) != request.DocumentSHA256 {
		return nil, signatureDomain.ErrDocumentTampered
	}

	return s.stamper.Stamp(data, signatureService.SignatureBlock{
		Signature:  request.Signature,
		SignedAt:   signedAt,
		IPAddress:  ipAddress,
		DocumentID: request.DocumentID,
	})
}

// storeSignedArtifact writes the stamped PDF as a new blob. The original is
// never overwritten. Failure is logged and not fatal: the signature record and
// the emailed copies still stand.
func (s *signatureRequestUseCase) storeSignedArtifact(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
	stamped []byte,
) {
	if s.artifactStore == nil {
		return
	}

	key := fmt.Sprintf("signed/%s/Signed_%s", request.ID, request.DocumentName)
	if _, err := s.artifactStore.Put(ctx, key, stamped); err != nil {
		s.logger.Warn("failed to store signed artifact",
			slog.String("request_id", request.ID),
			slog.Any("error", err),
		)
	}
}

// sendConfirmationEmails delivers the signer and requester confirmations in
// parallel. The two sends are independent: one failing does not cancel the
// other. The audit entry records that delivery was attempted, so it is
// appended after the attempts whether or not they succeeded.
func (s *signatureRequestUseCase) sendConfirmationEmails(
	ctx context.Context,
	request *signatureDomain.SignatureRequest,
	stamped []byte,
) {
	if s.mailer == nil || request.SignedAt == nil {
		return
	}

	signedAt := *request.SignedAt
	attachment := mail.Attachment{
		Filename:    fmt.Sprintf("Signed_%s", request.DocumentName),
		ContentType: "application/pdf",
		Content:     stamped,
	}

	auditLines := make([]mail.AuditLine, 0, len(request.AuditTrail))
	for _, entry := range request.AuditTrail {
		auditLines = append(auditLines, mail.AuditLine{
			Action:    entry.Action,
			Timestamp: entry.CreatedAt,
		})
	}

	var g errgroup.Group

	g.Go(func() error {
		subject, html, err := mail.RenderSignerConfirmation(mail.SignerConfirmationData{
			SignerName:   request.SignerName,
			DocumentName: request.DocumentName,
			SignedAt:     signedAt,
			DocumentID:   request.DocumentID,
			AuditTrail:   auditLines,
		})
		if err != nil {
			return err
		}
		return s.mailer.Send(ctx, &mail.Message{
			To:          request.SignerEmail,
			Subject:     subject,
			HTML:        html,
			Attachments: []mail.Attachment{attachment},
		})
	})

	if s.config.NotificationEmail != "" {
		g.Go(func() error {
			subject, html, err := mail.RenderRequesterConfirmation(mail.RequesterConfirmationData{
				SignerName:   request.SignerName,
				DocumentName: request.DocumentName,
				SignedAt:     signedAt,
			})
			if err != nil {
				return err
			}
			return s.mailer.Send(ctx, &mail.Message{
				To:          s.config.NotificationEmail,
				Subject:     subject,
				HTML:        html,
				Attachments: []mail.Attachment{attachment},
			})
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to send confirmation emails",
			slog.String("request_id", request.ID),
			slog.Any("error", err),
		)
	}

	entry := signatureDomain.NewAuditEntry(
		request.ID,
		signatureDomain.ActionConfirmationsSent,
		"",
		"",
		time.Now().UTC(),
	)
	if err := s.requestRepo.AppendAuditEntry(ctx, &entry); err != nil {
		s.logger.Warn("failed to record confirmation audit entry",
			slog.String("request_id", request.ID),
			slog.Any("error", err),
		)
	}
}

// NewSignatureRequestUseCase creates a new SignatureRequestUseCase instance.
func NewSignatureRequestUseCase(
	txManager database.TxManager,
	requestRepo SignatureRequestRepository,
	tokenService signatureService.TokenService,
	stamper signatureService.PDFStamper,
	fetcher document.Fetcher,
	artifactStore document.ArtifactStore,
	mailer mail.Mailer,
	logger *slog.Logger,
	config Config,
) SignatureRequestUseCase {
	return &signatureRequestUseCase{
		txManager:     txManager,
		requestRepo:   requestRepo,
		tokenService:  tokenService,
		stamper:       stamper,
		fetcher:       fetcher,
		artifactStore: artifactStore,
		mailer:        mailer,
		logger:        logger,
		config:        config,
	}
}
