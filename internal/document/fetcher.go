// Package document provides access to the external document store: fetching
// source PDF bytes by URL and persisting signed artifacts as new blobs.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// Fetcher retrieves document bytes by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// maxDocumentSize caps downloads at 50 MiB to bound memory per request.
const maxDocumentSize = 50 << 20

// httpFetcher implements Fetcher over plain HTTP(S).
type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a Fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the document. Any transport error or non-2xx response is an
// upstream failure: the document store owns the URL, not the caller.
func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("invalid document url: %v", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("failed to fetch document: %v", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Wrap(
			apperrors.ErrUpstream,
			fmt.Sprintf("document fetch returned status %d", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("failed to read document body: %v", err))
	}
	if len(data) > maxDocumentSize {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, "document exceeds maximum size")
	}

	return data, nil
}

// ContentHash returns the lowercase hex SHA-256 of the document bytes, used to
// pin the content reviewed by the signer at issuance time.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
