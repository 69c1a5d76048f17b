package usecase

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/ml"
)

// TrainedModels is a consistent custody/compensation pair from one run.
type TrainedModels struct {
	Custody      *ml.Pipeline
	Compensation *ml.Pipeline
}

type cachedPipeline struct {
	checksum [sha256.Size]byte
	pipeline *ml.Pipeline
}

const reasonStaleDataset = "stale_dataset"

// rejection explains why stored artifacts cannot be served.
type rejection struct {
	purpose domain.ModelPurpose
	reason  string
	err     error
	// fingerprint is the current dataset fingerprint of a stale_dataset
	// rejection.
	fingerprint string
}

// storeIntactError marks a training failure that happened before any stored
// artifact was touched.
type storeIntactError struct {
	err error
}

func (e *storeIntactError) Error() string { return e.err.Error() }
func (e *storeIntactError) Unwrap() error { return e.err }

// ModelTrainer owns the readiness state machine:
// unready -> retraining -> ready, and retraining -> unready on failure.
type ModelTrainer struct {
	store    ports.ModelStore
	dataset  ports.DatasetSource
	limits   domain.TrainingLimits
	observer ports.ModelObserver
	logger   *slog.Logger

	now      func() time.Time
	newRunID func() string

	// mu serializes check -> maybe retrain -> load.
	mu    sync.Mutex
	cache map[domain.ModelPurpose]cachedPipeline
	// failedFingerprint is the dataset version that last failed to train
	// while a stored pair stayed in service.
	failedFingerprint string

	stateMu sync.RWMutex
	status  domain.ModelStatus
}

func NewModelTrainer(
	store ports.ModelStore,
	dataset ports.DatasetSource,
	limits domain.TrainingLimits,
	observer ports.ModelObserver,
	logger *slog.Logger,
) *ModelTrainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelTrainer{
		store:    store,
		dataset:  dataset,
		limits:   limits,
		observer: observer,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
		cache:    make(map[domain.ModelPurpose]cachedPipeline, len(domain.ModelPurposes)),
		status:   domain.ModelStatus{State: domain.StateUnready},
	}
}

// EnsureReady is idempotent: when both stored artifacts load and agree with
// the current dataset nothing is trained.
func (t *ModelTrainer) EnsureReady(ctx context.Context) error {
	_, err := t.Models(ctx)
	return err
}

// Models ensures readiness and returns the loaded pipelines.
func (t *ModelTrainer) Models(ctx context.Context) (*TrainedModels, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pair, rej, err := t.loadStored(ctx)
	if err != nil {
		return nil, err
	}
	if rej == nil {
		t.markReady(pair)
		return pair.models(), nil
	}
	if rej.reason == reasonStaleDataset {
		return t.refreshStale(ctx, pair, rej)
	}

	t.reject(rej)
	pair, _, err = t.retrainLocked(ctx, true, nil)
	if err != nil {
		return nil, err
	}
	return pair.models(), nil
}

// refreshStale retrains for a changed dataset. The stored pair keeps serving
// until a new pair is fitted, and keeps serving if the new dataset cannot be
// trained on.
func (t *ModelTrainer) refreshStale(ctx context.Context, stored trainedPair, rej *rejection) (*TrainedModels, error) {
	if rej.fingerprint == t.failedFingerprint {
		t.markReady(stored)
		return stored.models(), nil
	}

	t.reject(rej)
	pair, _, err := t.retrainLocked(ctx, false, &stored)
	var intact *storeIntactError
	if errors.As(err, &intact) {
		t.failedFingerprint = rej.fingerprint
		t.logger.Warn("dataset changed but could not be trained on, serving stored models",
			"run_id", stored.custody.RunID,
			"dataset_fingerprint", rej.fingerprint,
			"error", err,
		)
		return stored.models(), nil
	}
	if err != nil {
		return nil, err
	}
	return pair.models(), nil
}

// Retrain trains both models again unconditionally. Stored artifacts are
// replaced only after the new pair is fitted.
func (t *ModelTrainer) Retrain(ctx context.Context) (*domain.TrainingReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, report, err := t.retrainLocked(ctx, false, t.cachedPair())
	return report, err
}

func (t *ModelTrainer) Status() domain.ModelStatus {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.status
}

func (t *ModelTrainer) reject(rej *rejection) {
	if t.observer != nil {
		t.observer.ArtifactRejected(rej.purpose, rej.reason)
	}
	t.logger.Warn("stored models rejected, retraining",
		"purpose", rej.purpose,
		"reason", rej.reason,
		"error", rej.err,
	)
}

// cachedPair returns the last loaded or persisted pair when both halves are
// cached and come from the same run.
func (t *ModelTrainer) cachedPair() *trainedPair {
	custody, ok := t.cache[domain.PurposeCustody]
	if !ok {
		return nil
	}
	compensation, ok := t.cache[domain.PurposeCompensation]
	if !ok || custody.pipeline.RunID != compensation.pipeline.RunID {
		return nil
	}
	return &trainedPair{custody: custody.pipeline, compensation: compensation.pipeline}
}

func (t *ModelTrainer) loadStored(ctx context.Context) (trainedPair, *rejection, error) {
	var pair trainedPair
	for _, purpose := range domain.ModelPurposes {
		ok, err := t.store.Exists(ctx, purpose)
		if err != nil {
			return trainedPair{}, nil, fmt.Errorf("check %s artifact: %w", purpose, err)
		}
		if !ok {
			return trainedPair{}, &rejection{purpose: purpose, reason: "missing"}, nil
		}
	}

	for _, purpose := range domain.ModelPurposes {
		p, rej, err := t.loadPipeline(ctx, purpose)
		if err != nil || rej != nil {
			return trainedPair{}, rej, err
		}
		if purpose == domain.PurposeCustody {
			pair.custody = p
		} else {
			pair.compensation = p
		}
	}

	if pair.custody.RunID != pair.compensation.RunID ||
		pair.custody.DatasetFingerprint != pair.compensation.DatasetFingerprint {
		return trainedPair{}, &rejection{
			purpose: domain.PurposeCompensation,
			reason:  "run_mismatch",
			err:     fmt.Errorf("custody run %s, compensation run %s", pair.custody.RunID, pair.compensation.RunID),
		}, nil
	}

	fingerprint, err := t.dataset.Fingerprint(ctx)
	if err != nil {
		// Without a readable dataset there is nothing better to retrain from.
		t.logger.Warn("dataset fingerprint unavailable, serving stored models", "error", err)
		return pair, nil, nil
	}
	if fingerprint != pair.custody.DatasetFingerprint {
		return pair, &rejection{
			purpose:     domain.PurposeCustody,
			reason:      reasonStaleDataset,
			err:         fmt.Errorf("artifacts trained on %s, dataset is %s", pair.custody.DatasetFingerprint, fingerprint),
			fingerprint: fingerprint,
		}, nil
	}
	return pair, nil, nil
}

func (t *ModelTrainer) loadPipeline(ctx context.Context, purpose domain.ModelPurpose) (*ml.Pipeline, *rejection, error) {
	data, err := t.store.Load(ctx, purpose)
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound):
		return nil, &rejection{purpose: purpose, reason: "missing", err: err}, nil
	case errors.Is(err, domain.ErrArtifactCorrupt):
		return nil, &rejection{purpose: purpose, reason: "corrupt", err: err}, nil
	case err != nil:
		return nil, nil, fmt.Errorf("load %s artifact: %w", purpose, err)
	}

	checksum := sha256.Sum256(data)
	if cached, ok := t.cache[purpose]; ok && cached.checksum == checksum {
		return cached.pipeline, nil, nil
	}

	p, err := ml.Decode(data)
	if err != nil {
		return nil, &rejection{purpose: purpose, reason: "corrupt", err: err}, nil
	}
	if p.Purpose != string(purpose) || p.Estimator.Task != expectedTask(purpose) {
		return nil, &rejection{
			purpose: purpose,
			reason:  "incompatible",
			err:     fmt.Errorf("slot holds a %s %s pipeline", p.Purpose, p.Estimator.Task),
		}, nil
	}
	t.cache[purpose] = cachedPipeline{checksum: checksum, pipeline: p}
	return p, nil, nil
}

func expectedTask(purpose domain.ModelPurpose) ml.Task {
	if purpose == domain.PurposeCustody {
		return ml.Classification
	}
	return ml.Regression
}

// retrainLocked runs one training. With clearFirst the stored slots are
// emptied before the dataset is read; otherwise they are replaced after the
// fit. A failure that left the store untouched puts fallback back in service.
func (t *ModelTrainer) retrainLocked(ctx context.Context, clearFirst bool, fallback *trainedPair) (trainedPair, *domain.TrainingReport, error) {
	t.setState(domain.StateRetraining)

	if t.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.limits.Timeout)
		defer cancel()
	}

	start := t.now()
	pair, report, err := t.train(ctx, start, clearFirst)
	duration := t.now().Sub(start)
	if err != nil {
		if t.observer != nil {
			t.observer.TrainingFinished("failure", duration.Seconds())
		}
		t.logger.Error("model training failed", "error", err, "duration", duration)
		var intact *storeIntactError
		if fallback != nil && errors.As(err, &intact) {
			t.markReady(*fallback)
		} else {
			t.markUnready(err)
		}
		return trainedPair{}, nil, err
	}

	t.failedFingerprint = ""

	report.Duration = duration
	t.markReady(pair)
	if t.observer != nil {
		t.observer.TrainingFinished("success", duration.Seconds())
	}
	t.logger.Info("models trained",
		"run_id", report.RunID,
		"dataset_fingerprint", report.DatasetFingerprint,
		"examples", report.Examples,
		"features", report.Features,
		"duration", duration,
	)
	return pair, report, nil
}

func (t *ModelTrainer) train(ctx context.Context, start time.Time, clearFirst bool) (trainedPair, *domain.TrainingReport, error) {
	if clearFirst {
		if err := t.clear(ctx); err != nil {
			return trainedPair{}, nil, err
		}
	}
	untouched := func(err error) error {
		if clearFirst {
			return err
		}
		return &storeIntactError{err: err}
	}

	ds, err := t.dataset.Load(ctx)
	if err != nil {
		return trainedPair{}, nil, untouched(fmt.Errorf("load dataset: %w", err))
	}

	runID := t.newRunID()
	trainedAt := start.UTC()
	pair, features, err := fitPipelines(ctx, ds, forestConfig(t.limits), runID, trainedAt)
	if err != nil {
		return trainedPair{}, nil, untouched(fmt.Errorf("fit models: %w", err))
	}

	if !clearFirst {
		if err := t.clear(ctx); err != nil {
			return trainedPair{}, nil, err
		}
	}

	if err := t.persist(ctx, pair); err != nil {
		// A half-saved pair must not survive the failed run.
		if clearErr := t.clear(context.WithoutCancel(ctx)); clearErr != nil {
			return trainedPair{}, nil, fmt.Errorf("%w; clear artifacts: %v", err, clearErr)
		}
		return trainedPair{}, nil, err
	}

	return pair, &domain.TrainingReport{
		RunID:              runID,
		DatasetFingerprint: ds.Fingerprint,
		Examples:           len(ds.Examples),
		Features:           features,
		TrainedAt:          trainedAt,
	}, nil
}

func (t *ModelTrainer) persist(ctx context.Context, pair trainedPair) error {
	for _, purpose := range domain.ModelPurposes {
		p := pair.pipeline(purpose)
		data, err := ml.Encode(p)
		if err != nil {
			return fmt.Errorf("encode %s artifact: %w", purpose, err)
		}
		if err := t.store.Save(ctx, purpose, data); err != nil {
			return fmt.Errorf("save %s artifact: %w", purpose, err)
		}
		t.cache[purpose] = cachedPipeline{checksum: sha256.Sum256(data), pipeline: p}
	}
	return nil
}

// clear deletes both slots so no stale half of an older pair survives.
func (t *ModelTrainer) clear(ctx context.Context) error {
	for _, purpose := range domain.ModelPurposes {
		delete(t.cache, purpose)
		if err := t.store.Delete(ctx, purpose); err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
			return fmt.Errorf("delete %s artifact: %w", purpose, err)
		}
	}
	return nil
}

func (t *ModelTrainer) setState(state domain.ReadinessState) {
	t.stateMu.Lock()
	t.status.State = state
	t.stateMu.Unlock()
	if t.observer != nil {
		t.observer.StateChanged(state)
	}
}

func (t *ModelTrainer) markReady(pair trainedPair) {
	trainedAt := pair.custody.TrainedAt
	t.stateMu.Lock()
	t.status = domain.ModelStatus{
		State:              domain.StateReady,
		RunID:              pair.custody.RunID,
		DatasetFingerprint: pair.custody.DatasetFingerprint,
		TrainedAt:          &trainedAt,
	}
	t.stateMu.Unlock()
	if t.observer != nil {
		t.observer.StateChanged(domain.StateReady)
	}
}

func (t *ModelTrainer) markUnready(cause error) {
	t.stateMu.Lock()
	t.status = domain.ModelStatus{State: domain.StateUnready, LastError: cause.Error()}
	t.stateMu.Unlock()
	if t.observer != nil {
		t.observer.StateChanged(domain.StateUnready)
	}
}
