package domain

import (
	"time"

	"github.com/pulsecrm/esign/internal/errors"
)

// Signature request errors.
var (
	// ErrRequestNotFound indicates no signature request exists for the given token.
	ErrRequestNotFound = errors.Wrap(errors.ErrNotFound, "signature request not found")

	// ErrRequestExpired indicates the request's validity window has passed.
	ErrRequestExpired = errors.Wrap(errors.ErrExpired, "signature request expired")

	// ErrAlreadySigned guards against re-signing a completed request.
	ErrAlreadySigned = errors.Wrap(errors.ErrConflict, "document already signed")

	// ErrDocumentUnavailable indicates the source document could not be
	// fetched or parsed during signing.
	ErrDocumentUnavailable = errors.Wrap(errors.ErrUpstream, "source document unavailable")

	// ErrDocumentTampered indicates the document content no longer matches the
	// hash pinned at issuance.
	ErrDocumentTampered = errors.Wrap(errors.ErrUpstream, "document content changed since issuance")
)

// AlreadySignedError carries the completion timestamp alongside the conflict,
// so callers can report when the document was signed. Matches ErrAlreadySigned
// (and ErrConflict) in errors.Is checks.
type AlreadySignedError struct {
	SignedAt *time.Time
}

func (e *AlreadySignedError) Error() string { return ErrAlreadySigned.Error() }

func (e *AlreadySignedError) Unwrap() error { return ErrAlreadySigned }
