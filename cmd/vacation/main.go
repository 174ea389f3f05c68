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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/viant/vacation"
	vhttp "github.com/viant/vacation/adapter/http"
	"github.com/viant/vacation/internal/bootstrap"
	"github.com/viant/vacation/tracing"
)

// Version is set at build time.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := bootstrap.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err = run(cfg, logger); err != nil {
		logger.Error("vacation service stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *vacation.Config, logger *zap.Logger) error {
	logger.Info("starting vacation service",
		zap.String("version", Version),
		zap.Int("port", cfg.HTTP.Port),
		zap.String("store", cfg.Store.Kind),
		zap.String("lock", cfg.Lock.Kind),
	)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init("vacation", Version, cfg.Tracing.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}
	location, err := cfg.TimeLocation()
	if err != nil {
		return err
	}

	ctx := context.Background()
	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Warn("failed to close components", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	options := append(components.Options(),
		vacation.WithLogger(logger),
		vacation.WithRegisterer(registry),
		vacation.WithLocation(location),
	)
	srv, err := vacation.New(options...)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := vhttp.NewRouter(srv, logger)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown: %w", err)
	}
	logger.Info("vacation service stopped")
	return nil
}
