// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/savscan/internal/api"
	"github.com/starford/savscan/internal/mcpserver"
	"github.com/starford/savscan/internal/savefile"
	"github.com/starford/savscan/internal/saveservice"
	"github.com/starford/savscan/internal/sse"
	"github.com/starford/savscan/internal/storage"
	"github.com/starford/savscan/internal/watch"
)

func newService(cfg *Config, logger *slog.Logger) (*saveservice.Service, *storage.FS, error) {
	store, err := storage.NewFS(cfg.Save.Dir, cfg.Save.Extension)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	loader := savefile.NewLoader(
		savefile.WithHeaderSize(cfg.Save.HeaderSize),
		savefile.WithLogger(logger),
	)
	return saveservice.NewService(store, loader, saveservice.Options{
		PreviewLimit: cfg.Search.PreviewLimit,
		SummaryLimit: cfg.Search.SummaryLimit,
	}), store, nil
}

// newHandler builds the root router: health checks plus the API under /api.
// events may be nil.
func newHandler(svc *saveservice.Service, cfg *Config, events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.With(api.RateLimitMiddleware(cfg.App.HTTP.RateLimit, cfg.App.HTTP.Burst)).
		Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, events))

	return r
}

// Serve starts the HTTP API with the given options and blocks until a
// shutdown signal arrives or ctx is cancelled.
func Serve(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(app.stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("save_dir", cfg.Save.Dir),
		slog.String("save_extension", cfg.Save.Extension),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, store, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHandler(svc, cfg, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Start save directory watcher with SSE callback.
	g.Go(func() error {
		err := watch.Dir(gCtx, store, store.Root(), func(kind, path, sum string) {
			broker.Notify(kind, path, sum)
		}, watch.WithLogger(logger))
		if err != nil {
			logger.Warn("save watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()

		// End open event streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP serves the MCP tools over stdin/stdout. Logs go to stderr since
// stdout carries the protocol.
func ServeMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(app.stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	svc, _, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting MCP server", slog.String("save_dir", cfg.Save.Dir))
	return mcpserver.New(svc, app.version).ServeStdio()
}
