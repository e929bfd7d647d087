package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	signatureMocks "github.com/pulsecrm/esign/internal/signature/http/mocks"
)

func TestRunExpireStaleRequests(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &signatureMocks.MockSignatureRequestUseCase{}
		mockUseCase.On("ExpireStale", ctx, mock.Anything).Return(int64(10), nil)

		var out bytes.Buffer
		err := runExpireStaleRequests(ctx, mockUseCase, logger, &out, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully expired 10 stale signature request(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &signatureMocks.MockSignatureRequestUseCase{}
		mockUseCase.On("CountStale", ctx, mock.Anything).Return(int64(5), nil)

		var out bytes.Buffer
		err := runExpireStaleRequests(ctx, mockUseCase, logger, &out, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("dry-run-does-not-expire", func(t *testing.T) {
		mockUseCase := &signatureMocks.MockSignatureRequestUseCase{}
		mockUseCase.On("CountStale", ctx, mock.Anything).Return(int64(3), nil)

		var out bytes.Buffer
		err := runExpireStaleRequests(ctx, mockUseCase, logger, &out, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Would expire 3 stale signature request(s)")
		mockUseCase.AssertNotCalled(t, "ExpireStale", mock.Anything, mock.Anything)
	})

	t.Run("use-case-failure", func(t *testing.T) {
		mockUseCase := &signatureMocks.MockSignatureRequestUseCase{}
		mockUseCase.On("ExpireStale", ctx, mock.Anything).Return(int64(0), context.DeadlineExceeded)

		var out bytes.Buffer
		err := runExpireStaleRequests(ctx, mockUseCase, logger, &out, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to expire stale signature requests")
	})
}
