package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("esign_test")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "esign_test")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("esign_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "esign_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "signature", "request_issue", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "signature", "request_issue", "error")
	})

	t.Run("Success_RecordMultipleOperations", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "signature", "request_view", "success")
		bm.RecordOperation(context.Background(), "signature", "request_complete", "success")
		bm.RecordOperation(context.Background(), "signature", "expire_stale", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("esign_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "esign_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "signature", "request_issue", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "signature", "request_complete", 456*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordOperation(context.Background(), "signature", "request_issue", "success")
		noOpMetrics.RecordOperation(context.Background(), "signature", "request_view", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordDuration(
			context.Background(),
			"signature",
			"request_issue",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "signature", "request_complete", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	// Record operation counts across the request lifecycle
	bm.RecordOperation(ctx, "signature", "request_issue", "success")
	bm.RecordOperation(ctx, "signature", "request_issue", "success")
	bm.RecordOperation(ctx, "signature", "request_issue", "error")
	bm.RecordOperation(ctx, "signature", "request_view", "success")
	bm.RecordOperation(ctx, "signature", "request_complete", "success")
	bm.RecordOperation(ctx, "signature", "expire_stale", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "signature", "request_issue", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "signature", "request_issue", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "signature", "request_issue", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "signature", "request_view", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "signature", "request_complete", 150*time.Millisecond, "success")

	// Verify metrics in the Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="signature".*operation="request_issue".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="signature".*operation="request_issue".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="signature".*operation="request_complete".*status="success"`,
		`1`,
	)

	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="signature".*operation="request_issue".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="signature".*operation="request_view".*status="success"`,
		``,
	)
}
