package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetly/internal/auth"
	"budgetly/internal/backend"
	"budgetly/internal/cli"
	"budgetly/internal/config"
	apphttp "budgetly/internal/http"
	"budgetly/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.LogError(ctx, "Invalid backend configuration", err, log.OpStartup, nil)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.LogError(ctx, "Failed to initialize backend", err, log.OpStartup,
			log.NewFields().With(log.FieldBackend, backendConfig.Type))
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.LogError(context.Background(), "Backend cleanup failed", err, log.OpShutdown, nil)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:          result.Store,
		Expenses:       result.Expenses,
		Tokens:         auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		Hasher:         auth.NewHasher(cfg.BcryptCost),
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "Starting budgetly server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.LogError(context.Background(), "Server error", err, log.OpShutdown, nil)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
