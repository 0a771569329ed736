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

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/notion"
	"github.com/starford/ansuz/internal/pageservice"
	"github.com/starford/ansuz/internal/resolver"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("notion_base_url", cfg.Notion.BaseURL),
		slog.Bool("stdio", app.stdio),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open the identifier cache. Unavailability is a startup failure,
	// not a per-call condition.
	db, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer db.Close()

	// Apply configured seeds before serving any operation.
	if err := db.Seed(cfg.Seed, logger); err != nil {
		return fmt.Errorf("seed cache: %w", err)
	}

	client := notion.NewClient(cfg.Notion.BaseURL, cfg.Notion.Token, cfg.Notion.Version)
	res := resolver.New(db, client)
	svc := pageservice.New(db, client, res)
	srv := mcpserver.New(svc)

	g, gCtx := errgroup.WithContext(ctx)

	// Re-apply seeds when the config file changes.
	if app.configPath != "" {
		configPath := app.configPath
		g.Go(func() error {
			return cache.Watch(gCtx, db, configPath, logger, func() ([]cache.Entry, error) {
				fresh := NewDefaultConfig()
				if err := pkgconfig.Load(configPath, fresh); err != nil {
					return nil, err
				}
				return fresh.Seed, nil
			})
		})
	}

	if app.stdio {
		logger.Info("Serving MCP over stdio")
		g.Go(func() error {
			if err := srv.ServeStdio(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			// Stdin closed: cancel the group so the watcher and the
			// signal handler unblock.
			return context.Canceled
		})
		g.Go(func() error {
			waitForShutdown(gCtx, logger)
			return context.Canceled
		})
		return waitGroup(g, logger)
	}

	// HTTP transport.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/", api.NewRouter(srv.Handler(), cfg.Auth.AuthEnabled(), cfg.Auth.Token))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, logger)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return context.Canceled
	})

	return waitGroup(g, logger)
}

// waitGroup waits for all goroutines, treating context.Canceled as a
// clean shutdown.
func waitGroup(g *errgroup.Group, logger *slog.Logger) error {
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}

func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, initiating shutdown")
	}
}
