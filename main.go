package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BladeMcCool/PaymentEngine/config"
	"github.com/BladeMcCool/PaymentEngine/diagnostic"
	"github.com/BladeMcCool/PaymentEngine/engine"
	"github.com/BladeMcCool/PaymentEngine/handler"
	"github.com/BladeMcCool/PaymentEngine/ingest"
	"github.com/BladeMcCool/PaymentEngine/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process globals. It returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("payment-engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	serve := fs.Bool("serve", false, "serve the HTTP API instead of processing a file")
	save := fs.Bool("save", false, "persist the final snapshot to DATABASE_URL")
	envFile := fs.String("env", ".env", "optional dotenv file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: payment-engine [flags] <transactions.csv>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, "could not build logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	eng := engine.New(newSink(cfg.Diagnostics, stderr, logger))

	if *serve {
		if err := serveHTTP(ctx, cfg, eng, logger); err != nil {
			logger.Error("server failed", zap.Error(err))
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if err := processFile(ctx, fs.Arg(0), eng, stdout); err != nil {
		logger.Error("processing failed", zap.String("file", fs.Arg(0)), zap.Error(err))
		return 1
	}

	if *save {
		if cfg.DatabaseURL == "" {
			logger.Error("-save requires DATABASE_URL")
			return 1
		}
		runID, err := saveSnapshot(ctx, cfg.DatabaseURL, eng)
		if err != nil {
			logger.Error("could not save snapshot", zap.Error(err))
			return 1
		}
		logger.Info("snapshot saved", zap.Stringer("run_id", runID))
	}
	return 0
}

func newSink(mode string, stderr io.Writer, logger *zap.Logger) diagnostic.Sink {
	switch mode {
	case config.DiagnosticsLog:
		return diagnostic.NewLogSink(logger)
	case config.DiagnosticsBoth:
		return diagnostic.Multi(diagnostic.NewWriterSink(stderr), diagnostic.NewLogSink(logger))
	case config.DiagnosticsOff:
		return diagnostic.Discard
	}
	return diagnostic.NewWriterSink(stderr)
}

func processFile(ctx context.Context, path string, eng *engine.Engine, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := eng.Process(ctx, f); err != nil {
		return err
	}
	return ingest.WriteAccounts(stdout, eng.Accounts())
}

func saveSnapshot(ctx context.Context, databaseURL string, eng *engine.Engine) (uuid.UUID, error) {
	store, err := storage.NewPostgresStore(ctx, databaseURL)
	if err != nil {
		return uuid.Nil, err
	}
	defer store.Close()

	runID := uuid.New()
	if err := store.SaveSnapshot(ctx, runID, eng.Accounts()); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, eng *engine.Engine, logger *zap.Logger) error {
	var store storage.Store
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pg.Close()
		store = pg
		logger.Info("database connection established and schema initialized")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(eng, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server gracefully stopped")
	return nil
}
