package usecase

import (
	"context"
	"time"

	"github.com/pulsecrm/esign/internal/metrics"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
)

// signatureRequestUseCaseWithMetrics decorates SignatureRequestUseCase with
// metrics instrumentation.
type signatureRequestUseCaseWithMetrics struct {
	next    SignatureRequestUseCase
	metrics metrics.BusinessMetrics
}

// NewSignatureRequestUseCaseWithMetrics wraps a SignatureRequestUseCase with
// metrics recording.
func NewSignatureRequestUseCaseWithMetrics(
	useCase SignatureRequestUseCase,
	m metrics.BusinessMetrics,
) SignatureRequestUseCase {
	return &signatureRequestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for signature request issuance.
func (s *signatureRequestUseCaseWithMetrics) Issue(
	ctx context.Context,
	input signatureDomain.IssueInput,
) (*signatureDomain.IssueOutput, error) {
	start := time.Now()
	output, err := s.next.Issue(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "signature", "request_issue", status)
	s.metrics.RecordDuration(ctx, "signature", "request_issue", time.Since(start), status)

	return output, err
}

// Get records metrics for signer views.
func (s *signatureRequestUseCaseWithMetrics) Get(
	ctx context.Context,
	input signatureDomain.ViewInput,
) (*signatureDomain.SignatureRequest, error) {
	start := time.Now()
	request, err := s.next.Get(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "signature", "request_view", status)
	s.metrics.RecordDuration(ctx, "signature", "request_view", time.Since(start), status)

	return request, err
}

// Complete records metrics for signing completions.
func (s *signatureRequestUseCaseWithMetrics) Complete(
	ctx context.Context,
	input signatureDomain.CompleteInput,
) (*signatureDomain.CompleteOutput, error) {
	start := time.Now()
	output, err := s.next.Complete(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "signature", "request_complete", status)
	s.metrics.RecordDuration(ctx, "signature", "request_complete", time.Since(start), status)

	return output, err
}

// ExpireStale records metrics for maintenance sweeps.
func (s *signatureRequestUseCaseWithMetrics) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	count, err := s.next.ExpireStale(ctx, now)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "signature", "request_expire_stale", status)
	s.metrics.RecordDuration(ctx, "signature", "request_expire_stale", time.Since(start), status)

	return count, err
}

// CountStale passes through without instrumentation; it is a read-only dry-run helper.
func (s *signatureRequestUseCaseWithMetrics) CountStale(ctx context.Context, now time.Time) (int64, error) {
	return s.next.CountStale(ctx, now)
}
