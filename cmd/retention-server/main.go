// cmd/retention-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"retention-service/internal/attrition/artifact"
	"retention-service/internal/common/camunda"
	"retention-service/internal/common/config"
	"retention-service/internal/common/logger"
	"retention-service/internal/common/metrics"
	"retention-service/internal/common/observability"
	"retention-service/internal/web"
	par "retention-service/internal/workers/attrition/predict-attrition-risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting retention service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// --- Observability ---
	obs, err := observability.New(cfg.Observability.ServiceName)
	if err != nil {
		zapLog.Warn("otel meter unavailable, continuing with prometheus only", zap.Error(err))
	}
	defer obs.Shutdown()

	tracing, err := observability.NewTracing(cfg.Observability.ServiceName, cfg.Observability.TracingEndpoint)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}
	defer tracing.Shutdown()

	// --- Artifacts: loaded once, immutable afterwards ---
	src, err := artifact.SourceFromConfig(cfg.Artifacts)
	if err != nil {
		zapLog.Fatal("artifact manifest unusable", zap.Error(err))
	}
	bundle, err := artifact.Load(src, log)
	if err != nil {
		zapLog.Fatal("artifacts failed to load, refusing to serve", zap.Error(err))
	}
	metrics.ArtifactInfo.
		WithLabelValues(bundle.Classifier.Kind(), src.ManifestVersion).
		Set(float64(len(bundle.Classifier.FeatureNames())))

	// --- Optional Zeebe worker ---
	var (
		zeebeClient *camunda.Client
		jobWorker   *camunda.Worker
	)
	if config.IsWorkerEnabled(cfg, par.TaskType) {
		connectCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		zeebeClient, err = camunda.Connect(connectCtx, camunda.ConfigFrom(cfg.Camunda), log)
		cancel()
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		handler := par.NewHandler(par.LoadConfig(cfg), bundle.Pipeline, log)
		jobWorker = camunda.StartWorker(zeebeClient.GetClient(), par.TaskType, config.GetWorkerConfig(cfg, par.TaskType), handler, log)
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", par.TaskType))
	}

	// --- Form, API, health and metrics ---
	server, err := web.New(cfg.Server, web.Options{
		Predictor:      bundle.Pipeline,
		Logger:         log,
		Observability:  obs,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
	})
	if err != nil {
		zapLog.Fatal("failed to build http server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Stop()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Retention service stopped gracefully")
}
