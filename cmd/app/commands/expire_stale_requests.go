package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pulsecrm/esign/internal/app"
	"github.com/pulsecrm/esign/internal/config"
	signatureUseCase "github.com/pulsecrm/esign/internal/signature/usecase"
)

// RunExpireStaleRequests marks signature requests whose signing window has
// passed as expired. Supports dry-run mode to preview the count and both
// text/JSON output formats. Intended to run periodically (e.g., cron), keeping
// stored statuses aligned with what the API would report anyway.
//
// Requirements: Database must be migrated and accessible.
func RunExpireStaleRequests(ctx context.Context, dryRun bool, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get signature request use case from container
	useCase, err := container.SignatureRequestUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize signature request use case: %w", err)
	}

	return runExpireStaleRequests(ctx, useCase, logger, os.Stdout, dryRun, format)
}

// runExpireStaleRequests executes the expiration with injected dependencies.
func runExpireStaleRequests(
	ctx context.Context,
	useCase signatureUseCase.SignatureRequestUseCase,
	logger *slog.Logger,
	out io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("expiring stale signature requests",
		slog.Bool("dry_run", dryRun),
	)

	now := time.Now().UTC()

	var count int64
	var err error
	if dryRun {
		count, err = useCase.CountStale(ctx, now)
	} else {
		count, err = useCase.ExpireStale(ctx, now)
	}
	if err != nil {
		return fmt.Errorf("failed to expire stale signature requests: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputExpireStaleJSON(out, count, dryRun)
	} else {
		outputExpireStaleText(out, count, dryRun)
	}

	logger.Info("expiration completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputExpireStaleText outputs the result in human-readable text format.
func outputExpireStaleText(out io.Writer, count int64, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would expire %d stale signature request(s)\n", count)
	} else {
		fmt.Fprintf(out, "Successfully expired %d stale signature request(s)\n", count)
	}
}

// outputExpireStaleJSON outputs the result in JSON format for machine consumption.
func outputExpireStaleJSON(out io.Writer, count int64, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
