package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

type memoryModelStore struct {
	mu        sync.Mutex
	artifacts map[domain.ModelPurpose][]byte
	saves     int
	loads     int
	saveErr   map[domain.ModelPurpose]error
	existsErr error
}

func newMemoryModelStore() *memoryModelStore {
	return &memoryModelStore{artifacts: make(map[domain.ModelPurpose][]byte)}
}

func (s *memoryModelStore) Exists(_ context.Context, purpose domain.ModelPurpose) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.artifacts[purpose]
	return ok, nil
}

func (s *memoryModelStore) Load(_ context.Context, purpose domain.ModelPurpose) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	data, ok := s.artifacts[purpose]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryModelStore) Save(_ context.Context, purpose domain.ModelPurpose, artifact []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErr[purpose]; err != nil {
		return err
	}
	s.saves++
	s.artifacts[purpose] = append([]byte(nil), artifact...)
	return nil
}

func (s *memoryModelStore) Delete(_ context.Context, purpose domain.ModelPurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[purpose]; !ok {
		return domain.ErrArtifactNotFound
	}
	delete(s.artifacts, purpose)
	return nil
}

func (s *memoryModelStore) put(purpose domain.ModelPurpose, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[purpose] = data
}

func (s *memoryModelStore) get(purpose domain.ModelPurpose) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifacts[purpose]
}

func (s *memoryModelStore) counts() (saves, loads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, s.loads
}

type datasetFake struct {
	mu          sync.Mutex
	fingerprint string
	examples    []domain.TrainingExample
	loadErr     error
	fpErr       error
	loads       int
	// blockUntilDone makes Load wait for the training deadline.
	blockUntilDone bool
}

func newDatasetFake() *datasetFake {
	return &datasetFake{fingerprint: "fp-1", examples: syntheticExamples(60)}
}

func (d *datasetFake) Fingerprint(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fpErr != nil {
		return "", d.fpErr
	}
	return d.fingerprint, nil
}

func (d *datasetFake) Load(ctx context.Context) (*domain.Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loads++
	if d.blockUntilDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.loadErr != nil {
		return nil, d.loadErr
	}
	return &domain.Dataset{
		Source:      "fake",
		Fingerprint: d.fingerprint,
		Examples:    d.examples,
	}, nil
}

func (d *datasetFake) loadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loads
}

var syntheticReasons = []string{"Adultery", "Abandonment", "Incompatibility", "Domestic Violence", "Other"}

func syntheticExamples(n int) []domain.TrainingExample {
	out := make([]domain.TrainingExample, n)
	for i := range out {
		father := float64(2000 + (i*937)%8000)
		mother := float64(1500 + (i*613)%8000)
		custody := "Mother"
		if father > mother+1000 {
			custody = "Father"
		}
		status := domain.DivorceStatusNotDivorced
		if i%3 != 0 {
			status = domain.DivorceStatusDivorced
		}
		out[i] = domain.TrainingExample{
			Record: domain.CaseRecord{
				DivorceStatus:    status,
				ReasonForDivorce: syntheticReasons[i%len(syntheticReasons)],
				ChildAge:         float64(1 + i%17),
				FatherSalary:     father,
				MotherSalary:     mother,
			},
			CustodyGrantedTo: custody,
			Compensation:     float64((i*131)%5000) + 0.5,
		}
	}
	return out
}

type modelObserverFake struct {
	mu        sync.Mutex
	states    []domain.ReadinessState
	trainings []string
	rejected  []string
}

func (o *modelObserverFake) TrainingFinished(status string, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.trainings = append(o.trainings, status)
}

func (o *modelObserverFake) ArtifactRejected(purpose domain.ModelPurpose, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, fmt.Sprintf("%s:%s", purpose, reason))
}

func (o *modelObserverFake) StateChanged(state domain.ReadinessState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, state)
}

type segmenterFake struct {
	sentences []string
}

func (f segmenterFake) Segment(string) []string {
	return f.sentences
}

type scorerFake struct {
	scores []float64
}

func (f scorerFake) Score([]string) []float64 {
	return f.scores
}

type extractorFake struct {
	text string
	err  error
	got  []byte
}

func (f *extractorFake) Extract(_ context.Context, data []byte) (string, error) {
	f.got = data
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type summarizerFake struct {
	calls int
}

func (f *summarizerFake) Summarize(text string) string {
	f.calls++
	return "summary of " + text
}
