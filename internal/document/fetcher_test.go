package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	fetcher := NewHTTPFetcher(5 * time.Second)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7 fake document"))
		}))
		defer server.Close()

		data, err := fetcher.Fetch(ctx, server.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7 fake document"), data)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := fetcher.Fetch(ctx, server.URL)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("Error_ServerUnreachable", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "http://localhost:1/document.pdf")

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
	})

	t.Run("Error_InvalidURL", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "://not-a-url")

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
	})
}

func TestContentHash(t *testing.T) {
	hash := ContentHash([]byte("hello"))

	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hash)
	assert.NotEqual(t, hash, ContentHash([]byte("hello!")))
	assert.Equal(t, hash, ContentHash([]byte("hello")))
}
