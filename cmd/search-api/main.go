package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightdev/amazon-search-api/internal/api"
	"github.com/brightdev/amazon-search-api/internal/brightdata"
	"github.com/brightdev/amazon-search-api/internal/config"
	"github.com/brightdev/amazon-search-api/internal/monitoring"
	"github.com/brightdev/amazon-search-api/internal/parser"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Initialize services
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	client := brightdata.NewClient(brightdata.Config{
		Username:   cfg.BrightDataUsername,
		Password:   cfg.BrightDataPassword,
		ProxyHost:  cfg.BrightDataProxyHost,
		ProxyPort:  cfg.BrightDataProxyPort,
		CACertPath: cfg.BrightDataCACertPath,
		Timeout:    cfg.FetchTimeout,
	}, parser.NewSearchParser(), logger)

	// Initialize API handlers
	handlers := api.NewHandlers(client, cfg, logger, metrics)
	router := api.NewRouter(handlers, cfg, logger, metrics)

	// Start server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
