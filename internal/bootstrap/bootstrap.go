package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/usecase"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/dataset"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/extractor/pdf"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/extractor/plaintext"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/extractor/sniff"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/nlp"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/queue/nats"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/resilience"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Dataset    *dataset.FileSource
	Store      ports.ModelStore
	Queue      *nats.Queue
	Summarizer *usecase.SummarizeUseCase
	Documents  *usecase.DocumentSummaryUseCase
	Trainer    *usecase.ModelTrainer
	Predictor  *usecase.PredictUseCase

	closers []func()
}

type Options struct {
	Service string
	Logger  *slog.Logger
	// Registerer receives model, prediction and summary metrics. Nil
	// disables them.
	Registerer prometheus.Registerer
	// DisableQueue skips the NATS connection even when NATS_URL is set.
	DisableQueue bool
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg, Logger: logger}

	var (
		modelObserver      ports.ModelObserver
		summaryObserver    ports.SummaryObserver
		predictionObserver ports.PredictionObserver
	)
	if opts.Registerer != nil {
		m := metrics.NewModelMetrics(opts.Service, opts.Registerer)
		modelObserver, summaryObserver, predictionObserver = m, m, m
	}

	source, err := dataset.NewFileSource(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("init dataset source: %w", err)
	}
	app.Dataset = source

	exec := resilience.NewExecutor(resilienceConfig(cfg), logger)

	store, closeStore, err := newModelStore(ctx, cfg, exec, logger)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)

	if cfg.NATSURL != "" && !opts.DisableQueue {
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSRetrainSubject, nats.Options{
			ResilienceExecutor: exec,
			Logger:             logger,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init retrain queue: %w", err)
		}
		app.Queue = queue
		app.closers = append(app.closers, queue.Close)
	}

	segmenter, err := nlp.NewPunktSegmenter()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init sentence segmenter: %w", err)
	}
	app.Summarizer = usecase.NewSummarizeUseCase(segmenter, nlp.NewCentralityScorer(), cfg.SummaryOptions(), summaryObserver)

	extractor := sniff.NewExtractor(pdf.NewExtractor(), plaintext.NewExtractor())
	app.Documents = usecase.NewDocumentSummaryUseCase(app.Summarizer, extractor, cfg.UploadMaxBytes)

	app.Trainer = usecase.NewModelTrainer(store, source, cfg.TrainingLimits(), modelObserver, logger)
	app.Predictor = usecase.NewPredictUseCase(app.Trainer, predictionObserver, logger)

	return app, nil
}

// Warm makes the models ready in the background so the first prediction does
// not pay for training.
func (a *App) Warm(ctx context.Context) {
	go func() {
		if err := a.Trainer.EnsureReady(ctx); err != nil && ctx.Err() == nil {
			a.Logger.Error("model warm-up failed", "error", err)
		}
	}()
}

// RetrainRequester returns the queue as a requester, or nil when the queue
// is disabled.
func (a *App) RetrainRequester() ports.RetrainRequester {
	if a.Queue == nil {
		return nil
	}
	return a.Queue
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func resilienceConfig(cfg config.Config) resilience.Config {
	return resilience.StoreConfig(
		cfg.StoreRetryAttempts,
		cfg.StoreBreakerEnabled,
		time.Duration(cfg.StoreBreakerOpenSecs)*time.Second,
	)
}

func storeKind(cfg config.Config) string {
	return strings.ToLower(strings.TrimSpace(cfg.ModelStore))
}
