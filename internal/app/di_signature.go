package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/esign/internal/document"
	"github.com/pulsecrm/esign/internal/mail"
	"github.com/pulsecrm/esign/internal/metrics"
	signatureHttp "github.com/pulsecrm/esign/internal/signature/http"
	signatureRepository "github.com/pulsecrm/esign/internal/signature/repository"
	signatureService "github.com/pulsecrm/esign/internal/signature/service"
	signatureUseCase "github.com/pulsecrm/esign/internal/signature/usecase"
)

// signatureComponents holds the signature request module dependencies.
// Embedded in Container; initialization lives here to keep di.go focused on
// infrastructure.
type signatureComponents struct {
	signatureRequestRepo    signatureUseCase.SignatureRequestRepository
	tokenService            signatureService.TokenService
	pdfStamper              signatureService.PDFStamper
	documentFetcher         document.Fetcher
	artifactStore           document.ArtifactStore
	mailer                  mail.Mailer
	signatureRequestUseCase signatureUseCase.SignatureRequestUseCase
	signatureRequestHandler *signatureHttp.SignatureRequestHandler

	signatureRequestRepoInit    sync.Once
	tokenServiceInit            sync.Once
	pdfStamperInit              sync.Once
	documentFetcherInit         sync.Once
	artifactStoreInit           sync.Once
	mailerInit                  sync.Once
	signatureRequestUseCaseInit sync.Once
	signatureRequestHandlerInit sync.Once
}

// SignatureRequestRepository returns the signature request repository instance.
func (c *Container) SignatureRequestRepository() (signatureUseCase.SignatureRequestRepository, error) {
	c.signatureRequestRepoInit.Do(func() {
		repo, err := c.initSignatureRequestRepository()
		if err != nil {
			c.initErrors["signatureRequestRepo"] = err
			return
		}
		c.signatureRequestRepo = repo
	})
	if storedErr, exists := c.initErrors["signatureRequestRepo"]; exists {
		return nil, storedErr
	}
	return c.signatureRequestRepo, nil
}

// TokenService returns the signing token generator.
func (c *Container) TokenService() signatureService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = signatureService.NewTokenService()
	})
	return c.tokenService
}

// PDFStamper returns the signature block stamper.
func (c *Container) PDFStamper() signatureService.PDFStamper {
	c.pdfStamperInit.Do(func() {
		c.pdfStamper = signatureService.NewPDFStamper()
	})
	return c.pdfStamper
}

// DocumentFetcher returns the source document fetcher.
func (c *Container) DocumentFetcher() document.Fetcher {
	c.documentFetcherInit.Do(func() {
		c.documentFetcher = document.NewHTTPFetcher(c.config.DocumentFetchTimeout)
	})
	return c.documentFetcher
}

// ArtifactStore returns the signed document store.
func (c *Container) ArtifactStore() (document.ArtifactStore, error) {
	c.artifactStoreInit.Do(func() {
		store, err := document.NewBlobArtifactStore(context.Background(), c.config.ArtifactBucketURL)
		if err != nil {
			c.initErrors["artifactStore"] = err
			return
		}
		c.artifactStore = store
	})
	if storedErr, exists := c.initErrors["artifactStore"]; exists {
		return nil, storedErr
	}
	return c.artifactStore, nil
}

// Mailer returns the outgoing mail implementation selected by MAIL_PROVIDER,
// or nil when mail is disabled. With mail disabled, signature requests are
// still created and the signing link is returned for manual sharing.
func (c *Container) Mailer() (mail.Mailer, error) {
	c.mailerInit.Do(func() {
		mailer, err := c.initMailer()
		if err != nil {
			c.initErrors["mailer"] = err
			return
		}
		c.mailer = mailer
	})
	if storedErr, exists := c.initErrors["mailer"]; exists {
		return nil, storedErr
	}
	return c.mailer, nil
}

// SignatureRequestUseCase returns the signature request use case instance.
func (c *Container) SignatureRequestUseCase() (signatureUseCase.SignatureRequestUseCase, error) {
	c.signatureRequestUseCaseInit.Do(func() {
		useCase, err := c.initSignatureRequestUseCase()
		if err != nil {
			c.initErrors["signatureRequestUseCase"] = err
			return
		}
		c.signatureRequestUseCase = useCase
	})
	if storedErr, exists := c.initErrors["signatureRequestUseCase"]; exists {
		return nil, storedErr
	}
	return c.signatureRequestUseCase, nil
}

// SignatureRequestHandler returns the HTTP handler for signature requests.
func (c *Container) SignatureRequestHandler() (*signatureHttp.SignatureRequestHandler, error) {
	c.signatureRequestHandlerInit.Do(func() {
		useCase, err := c.SignatureRequestUseCase()
		if err != nil {
			c.initErrors["signatureRequestHandler"] = err
			return
		}
		c.signatureRequestHandler = signatureHttp.NewSignatureRequestHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["signatureRequestHandler"]; exists {
		return nil, storedErr
	}
	return c.signatureRequestHandler, nil
}

// initSignatureRequestRepository creates the repository for the configured driver.
func (c *Container) initSignatureRequestRepository() (signatureUseCase.SignatureRequestRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for signature request repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return signatureRepository.NewMySQLSignatureRequestRepository(db), nil
	case "postgres":
		return signatureRepository.NewPostgreSQLSignatureRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMailer selects the mail implementation from configuration.
func (c *Container) initMailer() (mail.Mailer, error) {
	switch c.config.MailProvider {
	case "resend":
		if c.config.ResendAPIKey == "" {
			return nil, fmt.Errorf("mail provider resend requires RESEND_API_KEY")
		}
		return mail.NewResendMailer(c.config.ResendAPIKey, c.config.MailFrom), nil
	case "smtp":
		if c.config.SMTPHost == "" {
			return nil, fmt.Errorf("mail provider smtp requires SMTP_HOST")
		}
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.MailFrom,
		}), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", c.config.MailProvider)
	}
}

// initSignatureRequestUseCase creates the use case with all its dependencies,
// wrapped with metrics instrumentation when metrics are enabled.
func (c *Container) initSignatureRequestUseCase() (signatureUseCase.SignatureRequestUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for signature request use case: %w", err)
	}

	repo, err := c.SignatureRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository for signature request use case: %w", err)
	}

	artifactStore, err := c.ArtifactStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact store for signature request use case: %w", err)
	}

	mailer, err := c.Mailer()
	if err != nil {
		return nil, fmt.Errorf("failed to get mailer for signature request use case: %w", err)
	}

	useCase := signatureUseCase.NewSignatureRequestUseCase(
		txManager,
		repo,
		c.TokenService(),
		c.PDFStamper(),
		c.DocumentFetcher(),
		artifactStore,
		mailer,
		c.Logger(),
		signatureUseCase.Config{
			BaseURL:           c.config.BaseURL,
			NotificationEmail: c.config.NotificationEmail,
			Expiration:        c.config.SignatureExpiration,
		},
	)

	businessMetrics, err := c.businessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for signature request use case: %w", err)
	}

	return signatureUseCase.NewSignatureRequestUseCaseWithMetrics(useCase, businessMetrics), nil
}

// businessMetrics returns real metrics when enabled, no-op otherwise.
func (c *Container) businessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// httpMetricsMiddleware returns the HTTP metrics middleware, or nil when
// metrics are disabled.
func (c *Container) httpMetricsMiddleware() (gin.HandlerFunc, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace), nil
}
