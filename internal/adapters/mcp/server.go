// Package mcpadapter exposes summaries and predictions as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
)

const (
	serverName    = "justifai"
	serverVersion = "1.0.0"
)

type readinessReporter interface {
	Status() domain.ModelStatus
}

type Handlers struct {
	summarizer ports.CaseSummarizer
	predictor  ports.CasePredictor
	models     readinessReporter
}

func NewHandlers(summarizer ports.CaseSummarizer, predictor ports.CasePredictor, models readinessReporter) *Handlers {
	return &Handlers{summarizer: summarizer, predictor: predictor, models: models}
}

func NewServer(h *Handlers) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("summarize_case",
		mcp.WithDescription("Extractive summary of a legal case text: a lead sentence and up to three key points."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text of the case document.")),
	), h.SummarizeCase)

	s.AddTool(mcp.NewTool("predict_custody",
		mcp.WithDescription("Predict which parent is granted custody and the compensation amount."),
		mcp.WithNumber("father_salary", mcp.Required()),
		mcp.WithNumber("mother_salary", mcp.Required()),
		mcp.WithString("divorce_status", mcp.Required(), mcp.Description("Divorced, Not Divorced, Yes or No.")),
		mcp.WithString("reason_for_divorce", mcp.Required()),
		mcp.WithNumber("child_age", mcp.Required()),
	), h.PredictCustody)

	s.AddTool(mcp.NewTool("model_status",
		mcp.WithDescription("Readiness of the trained custody and compensation models."),
	), h.ModelStatus)

	return s
}

// ServeStdio runs the server over the given streams until ctx is done or
// stdin closes.
func ServeStdio(ctx context.Context, s *server.MCPServer, stdin io.Reader, stdout io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, stdin, stdout)
}

func (h *Handlers) SummarizeCase(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError((&domain.MissingFieldError{Field: "text"}).Error()), nil
	}
	return mcp.NewToolResultText(h.summarizer.Summarize(text)), nil
}

func (h *Handlers) PredictCustody(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if len(args) == 0 {
		return mcp.NewToolResultError(domain.ErrNoData.Error()), nil
	}

	req := &domain.PredictionRequest{
		FatherSalary:     numberArg(args, "father_salary"),
		MotherSalary:     numberArg(args, "mother_salary"),
		DivorceStatus:    stringArg(args, "divorce_status"),
		ReasonForDivorce: stringArg(args, "reason_for_divorce"),
		ChildAge:         numberArg(args, "child_age"),
	}
	prediction, err := h.predictor.Predict(ctx, req)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) || domain.IsKind(err, domain.ErrNoData) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(domain.ErrPredictionFailed.Error()), nil
	}
	return jsonResult(prediction)
}

func (h *Handlers) ModelStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.models.Status())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func numberArg(args map[string]any, key string) *float64 {
	switch v := args[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func stringArg(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}
