package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"golang.org/x/sync/errgroup"

	"github.com/benx421/payment-gateway/escrow/internal/config"
	"github.com/benx421/payment-gateway/escrow/internal/db"
	"github.com/benx421/payment-gateway/escrow/internal/fees"
	"github.com/benx421/payment-gateway/escrow/internal/gateway"
	"github.com/benx421/payment-gateway/escrow/internal/handlers"
	"github.com/benx421/payment-gateway/escrow/internal/notify"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
	"github.com/benx421/payment-gateway/escrow/internal/service"
)

const idempotencySweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting escrow api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"currency", cfg.App.Currency,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("escrow api stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	publisher, err := notify.NewPublisher(cfg.Notifications, watermill.NewStdLogger(false, false))
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close notification publisher", "error", err)
		}
	}()

	settings := repository.NewSettingsRepository(database, fees.FeeConfig{
		ClientFeePercent:   cfg.Fees.ClientFeePercent,
		ProviderFeePercent: cfg.Fees.ProviderFeePercent,
	})

	orchestrator := service.NewOrchestrator(
		repository.NewStore(database),
		gateway.NewClient(cfg.Gateway, logger),
		notify.NewNotifier(publisher, cfg.Notifications.Topic),
		fees.NewCachedProvider(settings, cfg.Fees.CacheTTL, logger),
		cfg.App,
		logger,
	)

	handler := handlers.NewHandler(orchestrator, orchestrator, orchestrator, orchestrator, database, logger)

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	router, err := handlers.NewRouter(handler, idempotencyRepo, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	if subscriber := publisher.LocalSubscriber(); subscriber != nil {
		g.Go(func() error {
			return notify.LogDrain(gctx, subscriber, cfg.Notifications.Topic, logger)
		})
	}

	g.Go(func() error {
		sweepIdempotencyKeys(gctx, idempotencyRepo, cfg.Server.IdempotencyTTL, logger)
		return nil
	})

	return g.Wait()
}

// sweepIdempotencyKeys deletes expired idempotency keys until ctx is done.
func sweepIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-ttl))
			if err != nil {
				logger.Error("failed to delete expired idempotency keys", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("deleted expired idempotency keys", "count", deleted)
			}
		}
	}
}
