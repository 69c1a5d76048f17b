package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	mcpadapter "github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/adapters/mcp"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/bootstrap"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/observability/logging"
)

type Globals struct {
	EnvFile  string `name:"env-file" help:"Optional dotenv file." default:".env" type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)." default:"warn"`
}

type CLI struct {
	Globals

	Summarize SummarizeCmd `cmd:"" help:"Summarize a PDF or text file (- reads stdin)."`
	Predict   PredictCmd   `cmd:"" help:"Predict custody and compensation for one case."`
	Train     TrainCmd     `cmd:"" help:"Make the models ready, training only when needed."`
	Status    StatusCmd    `cmd:"" help:"Show stored artifacts and the dataset fingerprint."`
	MCP       MCPCmd       `cmd:"" name:"mcp" help:"Serve the MCP tools over stdio."`
}

type runContext struct {
	ctx    context.Context
	app    *bootstrap.App
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func newRunContext(ctx context.Context, g Globals, stdin io.Reader, stdout, stderr io.Writer) (*runContext, error) {
	envErr := config.LoadDotEnv(g.EnvFile)
	cfg := config.Load()
	logger := logging.NewConsoleLogger(stderr, g.LogLevel)
	if envErr != nil {
		logger.Warn("ignoring unreadable env file", "path", g.EnvFile, "error", envErr)
	}

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:      "cli",
		Logger:       logger,
		DisableQueue: true,
	})
	if err != nil {
		return nil, err
	}
	return &runContext{ctx: ctx, app: app, logger: logger, stdin: stdin, stdout: stdout}, nil
}

func (rc *runContext) Close() {
	rc.app.Close()
}

func (rc *runContext) printJSON(v any) error {
	enc := json.NewEncoder(rc.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type SummarizeCmd struct {
	File string `arg:"" help:"Document to summarize." default:"-"`
}

func (c *SummarizeCmd) Run(rc *runContext) error {
	name := "stdin"
	var body io.Reader = rc.stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("open document: %w", err)
		}
		defer f.Close()
		body = f
		name = filepath.Base(c.File)
	}

	summary, err := rc.app.Documents.SummarizeUpload(rc.ctx, name, body)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(rc.stdout, summary.Summary)
	return err
}

type PredictCmd struct {
	FatherSalary     float64 `name:"father-salary" required:"" help:"Father's salary."`
	MotherSalary     float64 `name:"mother-salary" required:"" help:"Mother's salary."`
	DivorceStatus    string  `name:"divorce-status" required:"" help:"Divorced, Not Divorced, Yes or No."`
	ReasonForDivorce string  `name:"reason" required:"" help:"Reason for divorce."`
	ChildAge         float64 `name:"child-age" required:"" help:"Child's age in years."`
}

func (c *PredictCmd) request() *domain.PredictionRequest {
	return &domain.PredictionRequest{
		FatherSalary:     &c.FatherSalary,
		MotherSalary:     &c.MotherSalary,
		DivorceStatus:    &c.DivorceStatus,
		ReasonForDivorce: &c.ReasonForDivorce,
		ChildAge:         &c.ChildAge,
	}
}

func (c *PredictCmd) Run(rc *runContext) error {
	prediction, err := rc.app.Predictor.Predict(rc.ctx, c.request())
	if err != nil {
		return err
	}
	return rc.printJSON(prediction)
}

type TrainCmd struct {
	Force bool `help:"Retrain even when valid models are stored."`
}

func (c *TrainCmd) Run(rc *runContext) error {
	if c.Force {
		report, err := rc.app.Trainer.Retrain(rc.ctx)
		if err != nil {
			return err
		}
		return rc.printJSON(report)
	}
	if err := rc.app.Trainer.EnsureReady(rc.ctx); err != nil {
		return err
	}
	return rc.printJSON(rc.app.Trainer.Status())
}

type StatusCmd struct{}

type statusReport struct {
	ModelStore         string          `json:"model_store"`
	Artifacts          map[string]bool `json:"artifacts"`
	Dataset            string          `json:"dataset"`
	DatasetFingerprint string          `json:"dataset_fingerprint,omitempty"`
	DatasetError       string          `json:"dataset_error,omitempty"`
}

func (c *StatusCmd) Run(rc *runContext) error {
	report := statusReport{
		ModelStore: rc.app.Config.ModelStore,
		Artifacts:  make(map[string]bool, len(domain.ModelPurposes)),
		Dataset:    rc.app.Dataset.Path(),
	}
	for _, purpose := range domain.ModelPurposes {
		ok, err := rc.app.Store.Exists(rc.ctx, purpose)
		if err != nil {
			return fmt.Errorf("check %s artifact: %w", purpose, err)
		}
		report.Artifacts[string(purpose)] = ok
	}
	fp, err := rc.app.Dataset.Fingerprint(rc.ctx)
	if err != nil {
		report.DatasetError = err.Error()
	} else {
		report.DatasetFingerprint = fp
	}
	return rc.printJSON(report)
}

type MCPCmd struct{}

func (c *MCPCmd) Run(rc *runContext) error {
	rc.app.Warm(rc.ctx)
	handlers := mcpadapter.NewHandlers(rc.app.Summarizer, rc.app.Predictor, rc.app.Trainer)
	rc.logger.Info("serving mcp over stdio")
	return mcpadapter.ServeStdio(rc.ctx, mcpadapter.NewServer(handlers), rc.stdin, rc.stdout)
}
