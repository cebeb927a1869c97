package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/NahomAnteneh/scm-predictor/internal/api"
	"github.com/NahomAnteneh/scm-predictor/internal/config"
	"github.com/NahomAnteneh/scm-predictor/internal/db"
	"github.com/NahomAnteneh/scm-predictor/internal/db/models"
	"github.com/NahomAnteneh/scm-predictor/internal/logging"
	"github.com/NahomAnteneh/scm-predictor/internal/model"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
	"github.com/NahomAnteneh/scm-predictor/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scm-predictor: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scm-predictor: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting SCM late delivery predictor")

	loader := model.NewLoader(cfg.ResolvedModelPath(), cfg.ResolvedFeatureNamesPath(), logger)

	// Warm the model cache. A failure is not fatal: the dashboard reports it per request.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	if m, err := loader.Get(warmCtx); err != nil {
		logger.Error("Model artifact unavailable at startup", zap.Error(err))
	} else {
		logger.Info("Model artifact ready",
			zap.String("kind", m.Classifier.Kind()),
			zap.String("fingerprint", m.Fingerprint),
			zap.Strings("features", m.FeatureNames()))
	}
	cancelWarm()

	var history models.AssessmentService
	if cfg.IsHistoryEnabled() {
		database, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(database); err != nil {
				logger.Warn("Failed to close database connection", zap.Error(err))
			}
		}()

		if err := db.RunMigrations(database); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		history = models.NewAssessmentService(database)
		logger.Info("Assessment history enabled", zap.String("driver", cfg.DatabaseDriver))
	} else {
		logger.Info("Assessment history disabled")
	}

	pages, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to parse dashboard templates", zap.Error(err))
	}

	svc := predictor.NewService(loader, history, logger)
	router := api.SetupRouter(cfg, loader, svc, pages, logger)

	// Configure HTTP server with timeouts
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
		ErrorLog:       logging.StdLogger(logger, "http"),
	}

	// Channel to capture server errors
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("Dashboard listening", zap.Int("port", cfg.ServerPort), zap.Bool("tls", cfg.IsTLSEnabled()))
		if cfg.IsTLSEnabled() {
			serverErr <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			serverErr <- server.ListenAndServe()
		}
	}()

	// SIGHUP re-reads the model artifact; SIGINT and SIGTERM shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

wait:
	for {
		select {
		case err := <-serverErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("Server failed", zap.Error(err))
			}
			return
		case sig := <-quit:
			if sig != syscall.SIGHUP {
				logger.Info("Received signal", zap.String("signal", sig.String()))
				break wait
			}
			reloadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if m, err := loader.Reload(reloadCtx); err != nil {
				logger.Error("Model reload failed, keeping previous model", zap.Error(err))
			} else {
				logger.Info("Model reloaded", zap.String("fingerprint", m.Fingerprint))
			}
			cancel()
		}
	}

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server shutdown complete")
}
