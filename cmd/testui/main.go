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

	"go.uber.org/zap"

	"github.com/rbrinkke/testing-ui/internal/testui/config"
	"github.com/rbrinkke/testing-ui/internal/testui/httpserver"
	"github.com/rbrinkke/testing-ui/internal/testui/observability"
	"github.com/rbrinkke/testing-ui/internal/testui/pages"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv(config.EnvConfigFile), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("testui")

	renderer, err := pages.NewRenderer(pages.RendererConfig{
		Dir:    cfg.TemplatesDir,
		Reload: cfg.Reload,
	})
	if err != nil {
		logger.Fatal("failed to initialise renderer", zap.Error(err))
	}
	if !cfg.Reload {
		if err := renderer.Preload(pages.Table()); err != nil {
			logger.Fatal("failed to load templates", zap.String("dir", cfg.TemplatesDir), zap.Error(err))
		}
	}

	srv := httpserver.New(httpserver.Config{
		Address:        cfg.Address,
		Prefix:         cfg.Prefix,
		Renderer:       renderer,
		Logger:         logger,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		RequestTimeout: cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("testing ui listening",
		zap.String("addr", cfg.Address),
		zap.String("prefix", cfg.Prefix),
		zap.String("templates", cfg.TemplatesDir),
		zap.Bool("reload", cfg.Reload),
	)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		_ = baseLogger.Sync()
		os.Exit(1)
	}
	logger.Info("testing ui stopped")
}
