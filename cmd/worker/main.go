package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/bootstrap"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/watch"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/logging"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	envErr := config.LoadDotEnv()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	if envErr != nil {
		logger.Warn("ignoring unreadable .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:    serviceName,
		Logger:     logger,
		Registerer: workerMetrics.Registerer(),
	})
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	w := &worker{models: app.Trainer, metrics: workerMetrics, logger: logger}
	if app.Queue != nil {
		w.queue = app.Queue
	}
	if err := run(ctx, cfg, w); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, w *worker) error {
	g, gctx := errgroup.WithContext(ctx)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           w.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		w.logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := w.handle(gctx, "startup", "ensure ready"); err != nil {
			w.logger.Error("initial training failed", "error", err)
		}
		return nil
	})

	if cfg.DatasetWatchEnabled {
		watcher, err := watch.NewDatasetWatcher(cfg.DatasetPath, 0, w.logger, func(ctx context.Context) {
			_ = w.handle(ctx, "watch", "dataset changed")
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if w.queue != nil {
		g.Go(func() error {
			w.logger.Info("worker subscribed", "subject", cfg.NATSRetrainSubject)
			return w.queue.SubscribeRetrain(gctx, func(ctx context.Context, reason string) error {
				return w.handle(ctx, "queue", reason)
			})
		})
	}

	return g.Wait()
}

type worker struct {
	models  ports.ModelManager
	queue   ports.RetrainQueue
	metrics *metrics.WorkerMetrics
	logger  *slog.Logger
}

// handle forces a retrain for explicit requests. Startup and dataset events
// only retrain when the stored models are missing, corrupt or stale.
func (w *worker) handle(ctx context.Context, source, reason string) error {
	w.metrics.StartRetrain()
	start := time.Now()

	var err error
	if source == "queue" {
		report, retrainErr := w.models.Retrain(ctx)
		if retrainErr == nil {
			w.logger.Info("models retrained",
				"source", source,
				"reason", reason,
				"run_id", report.RunID,
				"examples", report.Examples,
				"duration", report.Duration.String(),
			)
		}
		err = retrainErr
	} else {
		err = w.models.EnsureReady(ctx)
		if err == nil {
			status := w.models.Status()
			w.logger.Info("models ready", "source", source, "reason", reason, "run_id", status.RunID)
		}
	}

	w.metrics.FinishRetrain(serviceName, source, time.Since(start), err)
	if err != nil {
		w.logger.Error("retrain failed", "source", source, "reason", reason, "error", err)
	}
	return err
}
