package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/adapters/http/openapi"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/metrics"
)

const (
	serviceName          = "api"
	jsonBodyLimit        = 1 << 20
	multipartOverhead    = 1 << 20
	backpressureWait     = 250 * time.Millisecond
	summarizationHint    = "Please use POST /upload endpoint to upload a PDF file for summarization"
	invalidUploadMessage = "invalid file type or empty upload"
)

type readinessReporter interface {
	Status() domain.ModelStatus
}

type Router struct {
	cfg        config.Config
	summarizer ports.CaseSummarizer
	documents  ports.DocumentSummarizer
	predictor  ports.CasePredictor
	models     readinessReporter
	retrainer  ports.RetrainRequester
	metrics    *metrics.HTTPServerMetrics
	logger     *slog.Logger
	apiSpec    []byte
}

type RouterOption func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) { rt.metrics = m }
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(rt *Router) { rt.logger = logger }
}

// WithRetrainRequester enables POST /v1/models/retrain.
func WithRetrainRequester(retrainer ports.RetrainRequester) RouterOption {
	return func(rt *Router) { rt.retrainer = retrainer }
}

func NewRouter(
	cfg config.Config,
	summarizer ports.CaseSummarizer,
	documents ports.DocumentSummarizer,
	predictor ports.CasePredictor,
	models readinessReporter,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		cfg:        cfg,
		summarizer: summarizer,
		documents:  documents,
		predictor:  predictor,
		models:     models,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	spec, err := openapi.JSON(context.Background())
	if err != nil {
		rt.logger.Error("openapi document unavailable", "error", err)
	}
	rt.apiSpec = spec
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/readyz", rt.readyz)
	mux.HandleFunc("/summarization", rt.summarizationHint)
	mux.HandleFunc("/upload", rt.uploadDocument)
	mux.HandleFunc("/v1/summaries", rt.summarizeText)
	mux.HandleFunc("/predict", rt.predict)
	mux.HandleFunc("/v1/models/retrain", rt.requestRetrain)
	mux.HandleFunc("/openapi.json", rt.openAPIDocument)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(handler, jsonBodyLimit, rt.uploadLimit())
	handler = backpressureWithReject(handler, rt.cfg.APIMaxInFlight, backpressureWait, rt.onReject("backpressure"))
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.onReject("rate_limit"))
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) uploadLimit() int64 {
	limit := rt.cfg.UploadMaxBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	return limit + multipartOverhead
}

func (rt *Router) onReject(reason string) func() {
	if rt.metrics == nil {
		return nil
	}
	return func() { rt.metrics.RecordRejected(serviceName, reason) }
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	status := rt.models.Status()
	code := http.StatusOK
	if status.State != domain.StateReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (rt *Router) summarizationHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": summarizationHint})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": domain.ErrTooLarge.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidUploadMessage})
		return
	}
	defer file.Close()

	summary, err := rt.documents.SummarizeUpload(r.Context(), fileHeader.Filename, file)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			rt.logger.InfoContext(r.Context(), "upload rejected", "request_id", requestIDFromContext(r.Context()), "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidUploadMessage})
			return
		}
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) summarizeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Text == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": (&domain.MissingFieldError{Field: "text"}).Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": rt.summarizer.Summarize(*req.Text)})
}

func (rt *Router) predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	req, err := decodePredictionRequest(r.Body)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	prediction, err := rt.predictor.Predict(r.Context(), req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

// decodePredictionRequest treats an empty body, null and {} alike as no data.
func decodePredictionRequest(body io.Reader) (*domain.PredictionRequest, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read prediction request", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, domain.ErrNoData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode prediction request", errors.New("invalid json"))
	}
	if len(fields) == 0 {
		return nil, domain.ErrNoData
	}

	var req domain.PredictionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "decode prediction request", errors.New("invalid type for field `"+typeErr.Field+"`"))
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode prediction request", err)
	}
	return &req, nil
}

func (rt *Router) requestRetrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if rt.retrainer == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "retrain queue is not configured"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "api request"
	}

	if err := rt.retrainer.RequestRetrain(r.Context(), reason); err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	if len(rt.apiSpec) == 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "openapi document unavailable"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rt.apiSpec)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logger.ErrorContext(r.Context(), "request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": publicErrorMessage(err, status)})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
