package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/vk/adsgateway/internal/ctxlog"
	"github.com/vk/adsgateway/internal/gads"
)

// App encapsulates one gateway instance: its config, logger, metadata
// catalogue, and the search collaborator it fronts.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	search     gads.SearchService
	metadata   *gads.Metadata
	httpServer *http.Server
}

// NewApp builds a fully initialized gateway. The search collaborator is
// injected so tests (and alternative transports) can swap it freely.
func NewApp(outW io.Writer, cfg *Config, search gads.SearchService) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)

	metadata, err := gads.LoadMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to load reporting metadata: %w", err)
	}
	logger.Debug("Reporting metadata loaded.", "resources", len(metadata.ResourceNames()))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		search:   search,
		metadata: metadata,
	}, nil
}

// Run serves the HTTP API until ctx is cancelled, then shuts the server
// down gracefully within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	a.httpServer = &http.Server{
		Addr:    a.config.ListenAddr,
		Handler: a.routes(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 Gateway listening", "addr", a.config.ListenAddr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down gateway...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown failed: %w", err)
	}
	a.logger.Debug("Gateway shut down gracefully.")
	return nil
}
