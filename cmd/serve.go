package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/statichaus/staticd/internal/assets"
	"github.com/statichaus/staticd/internal/config"
	"github.com/statichaus/staticd/internal/log"
	"github.com/statichaus/staticd/internal/server"
	"github.com/statichaus/staticd/internal/watcher"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second // prevents Slowloris (CWE-400)
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

var (
	serveAddr  string
	serveRoot  string
	serveIndex string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated site over HTTP",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (host:port), overrides config")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "asset root directory, overrides config")
	serveCmd.Flags().StringVar(&serveIndex, "index", "", "index filename for directory requests, overrides config")
}

// loadServeConfig loads configuration and applies flag overrides.
// Flags win over environment and file values.
func loadServeConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	if serveRoot != "" {
		cfg.Root = serveRoot
	}
	if serveIndex != "" {
		cfg.IndexFile = serveIndex
	}

	// Re-validate: the overrides bypassed Load's checks.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// runServe initializes and starts the HTTP server, blocking until
// SIGINT/SIGTERM.
func runServe() error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resolver, err := assets.NewResolver(cfg.Root, cfg.IndexFile)
	if err != nil {
		return fmt.Errorf("opening asset root: %w", err)
	}

	// The watcher drives the readiness probe. If it can't start (e.g.
	// inotify limits), readiness falls back to stat-per-probe.
	var ready func() bool
	w, err := watcher.New(resolver.Root(), logger.With("component", "watcher"))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		logger.Warn("fs watcher unavailable, readiness falls back to stat", "error", err)
	} else {
		defer func() {
			if stopErr := w.Stop(); stopErr != nil {
				logger.Warn("stopping watcher", "error", stopErr)
			}
		}()
		ready = w.Ready
	}

	srv, err := server.New(server.Config{
		Logger:      logger,
		Resolver:    resolver,
		CacheMaxAge: cfg.CacheMaxAge,
		RateRPS:     cfg.RateRPS,
		RateBurst:   cfg.RateBurst,
		TrustProxy:  cfg.TrustProxy,
		Ready:       ready,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", cfg.ListenAddr,
		"root", resolver.Root(),
		"health", "/healthz, /readyz",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
