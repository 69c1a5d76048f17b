package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/adapters/http"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/bootstrap"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/logging"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	envErr := config.LoadDotEnv()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	if envErr != nil {
		logger.Warn("ignoring unreadable .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:    serviceName,
		Logger:     logger,
		Registerer: httpMetrics.Registerer(),
	})
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	app.Warm(ctx)

	router := httpadapter.NewRouter(
		cfg,
		app.Summarizer,
		app.Documents,
		app.Predictor,
		app.Trainer,
		httpadapter.WithLogger(logger),
		httpadapter.WithMetrics(httpMetrics),
		httpadapter.WithRetrainRequester(app.RetrainRequester()),
	).Handler()

	server := &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		logger.Error("listen failed", "port", cfg.APIPort, "error", err)
		os.Exit(1)
	}
	if cfg.APIMaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.APIMaxConnections)
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort, "model_store", cfg.ModelStore)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
