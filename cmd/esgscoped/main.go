// Command esgscoped is the esgscope platform service.
// It serves the scoring and report API, Prometheus metrics, and a health check.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esgscope/esgscope/internal/api"
	"github.com/esgscope/esgscope/internal/ingestion"
	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/config"
	"github.com/esgscope/esgscope/pkg/scoring"
)

func main() {
	configPath := flag.String("config", os.Getenv("ESGSCOPE_CONFIG"), "Path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "esgscoped: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer zap.L().Sync() //nolint:errcheck
	log := zap.L()

	weights, err := cfg.ScoringWeights()
	if err != nil {
		return err
	}
	engine := scoring.NewDefaultEngine(weights)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := ingestion.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return eris.Wrap(err, "init storage")
	}

	l, err := ledger.Open(ctx, cfg.Ledger)
	if err != nil {
		return eris.Wrap(err, "open ledger")
	}
	defer l.Close()

	ingestionSvc := ingestion.NewService(storage, l, engine, log)
	handler := api.NewHandler(ingestionSvc, engine, api.NewDocumentCache(cfg.Server.CacheSize), log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.RequestLog(log)(api.CORS(cfg.Server.AllowedOrigins)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting esgscoped",
			zap.String("addr", cfg.Server.Addr),
			zap.String("storage", cfg.Storage.Backend),
			zap.String("ledger", cfg.Ledger.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutdown")
	}
	return nil
}
