package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetly/internal/amqp"
	"budgetly/internal/cli"
	"budgetly/internal/config"
	"budgetly/internal/log"
	"budgetly/internal/sheets"
	gsheet "budgetly/internal/sheets/google"
	mem "budgetly/internal/sheets/memory"
	"budgetly/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	ledger, err := newLedger(ctx, cfg, logger)
	if err != nil {
		logger.LogError(ctx, "Failed to initialize ledger", err, log.OpStartup, nil)
		os.Exit(1)
	}
	ledgerWorker := worker.NewLedgerWorker(ledger, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consume(gctx, cfg, logger, ledgerWorker)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.LogError(context.Background(), "Worker stopped with error", err, log.OpShutdown, nil)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func newLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.LedgerWriter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.InfoContext(ctx, "Google Sheets disabled, keeping ledger in memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsFile: cfg.GoogleCredentialsFile,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Google Sheets ledger initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

// consume keeps a consumer attached to the broker, reconnecting with
// backoff whenever the connection or channel drops.
func consume(ctx context.Context, cfg *config.Config, logger *log.Logger, w *worker.LedgerWorker) error {
	for attempt := 0; ; {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err == nil {
			attempt = 0
			err = client.ConsumeExpenseEvents(ctx, w.HandleEvent)
			client.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := amqp.Backoff(attempt)
		attempt++
		logger.WarnContext(ctx, "AMQP consumer interrupted, reconnecting",
			log.FieldError, err,
			"retry_in", delay.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
