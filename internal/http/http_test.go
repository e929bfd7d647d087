package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/esign/internal/config"
	"github.com/pulsecrm/esign/internal/metrics"
	signatureDomain "github.com/pulsecrm/esign/internal/signature/domain"
	signatureHttp "github.com/pulsecrm/esign/internal/signature/http"
	httpMocks "github.com/pulsecrm/esign/internal/signature/http/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer builds a full Server with a mocked use case behind the
// signature request handler.
func createTestServer(cfg *config.Config, useCase *httpMocks.MockSignatureRequestUseCase) *Server {
	logger := testLogger()
	handler := signatureHttp.NewSignatureRequestHandler(useCase, logger)
	return NewServer(cfg, logger, nil, handler, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		ServerHost: "localhost",
		ServerPort: 8080,
		LogLevel:   "debug",
	}
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler_NilDBReadsReady(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	NewReadinessHandler(nil)(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ready", response["status"])
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CustomLoggerMiddleware(testLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(testLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_HealthEndpoint(t *testing.T) {
	useCase := new(httpMocks.MockSignatureRequestUseCase)
	server := createTestServer(testConfig(), useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RequestIDHeaderPresent(t *testing.T) {
	useCase := new(httpMocks.MockSignatureRequestUseCase)
	server := createTestServer(testConfig(), useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestServer_SignatureRequestRouteWired(t *testing.T) {
	useCase := new(httpMocks.MockSignatureRequestUseCase)
	useCase.On("Get", mock.Anything, mock.Anything).
		Return(nil, signatureDomain.ErrRequestNotFound)
	server := createTestServer(testConfig(), useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/signature-requests/unknown-token", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired signature request")
	useCase.AssertExpectations(t)
}

func TestServer_RateLimitAppliedToTokenRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 1
	cfg.RateLimitBurst = 1

	useCase := new(httpMocks.MockSignatureRequestUseCase)
	useCase.On("Get", mock.Anything, mock.Anything).
		Return(nil, signatureDomain.ErrRequestNotFound)
	server := createTestServer(cfg, useCase)

	first := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/signature-requests/some-token", nil))
	assert.Equal(t, http.StatusNotFound, first.Code)

	second := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/signature-requests/some-token", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")

	// The issue route is not behind the limiter.
	issue := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(issue, httptest.NewRequest(http.MethodPost, "/v1/signature-requests", nil))
	assert.NotEqual(t, http.StatusTooManyRequests, issue.Code)
}

func TestServer_NotFoundEndpoint(t *testing.T) {
	useCase := new(httpMocks.MockSignatureRequestUseCase)
	server := createTestServer(testConfig(), useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_NoMetricsEndpoint(t *testing.T) {
	useCase := new(httpMocks.MockSignatureRequestUseCase)
	server := createTestServer(testConfig(), useCase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, testLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
