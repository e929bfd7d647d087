package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/esign/internal/config"
	signatureHttp "github.com/pulsecrm/esign/internal/signature/http"
)

// Server represents the main HTTP server serving the signature request API.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new Server with routing and middleware configured.
//
// Routes:
//   - POST /v1/signature-requests                 issue a new signature request
//   - GET  /v1/signature-requests/:token          view a request (marks first view)
//   - POST /v1/signature-requests/:token/complete sign the document
//   - GET  /health, GET /ready                    probes
//
// The two :token routes are public and carry per-IP rate limiting when
// enabled. The issue route is expected to sit behind the CRM's own
// authentication layer upstream.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	signatureRequestHandler *signatureHttp.SignatureRequestHandler,
	metricsMiddleware gin.HandlerFunc,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", NewReadinessHandler(db))

	v1 := router.Group("/v1")
	v1.POST("/signature-requests", signatureRequestHandler.IssueHandler)

	public := v1.Group("/signature-requests")
	if cfg.RateLimitEnabled {
		public.Use(IPRateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	public.GET("/:token", signatureRequestHandler.GetHandler)
	public.POST("/:token/complete", signatureRequestHandler.CompleteHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
