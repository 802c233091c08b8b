// Package app wires configuration, adapters, services, and the HTTP
// transport together and runs the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres/synset"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/provider/annotate"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/provider/embedding"
	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/service/ambiguity"
	"github.com/lexiguard/lexiguard-backend/internal/service/enrichment"
	"github.com/lexiguard/lexiguard-backend/internal/service/recommend"
	"github.com/lexiguard/lexiguard-backend/internal/transport/middleware"
	"github.com/lexiguard/lexiguard-backend/internal/transport/rest"
)

// Run builds the application from configuration and serves HTTP until the
// context is cancelled or a termination signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting lexiguard backend",
		slog.String("version", BuildVersion()),
		slog.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("app: connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	senseRepo := synset.New(pool, txm)

	annotateClient := annotate.NewClient(cfg.Annotation, logger)
	embedClient := embedding.NewClient(cfg.Embedding, logger)

	detector := ambiguity.NewService(logger, senseRepo, embedClient, cfg.Detector)
	recommender := recommend.NewService(logger, embedClient)
	enricher := enrichment.NewService(logger, cfg.Enrichment)

	analyzeHandler := rest.NewAnalyzeHandler(annotateClient, detector, recommender, enricher, logger)
	healthHandler := rest.NewHealthHandler(senseRepo, annotateClient, BuildVersion())
	mux := rest.NewRouter(analyzeHandler, healthHandler)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMinute),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
