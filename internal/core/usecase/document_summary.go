package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
)

const defaultUploadMaxBytes int64 = 16 << 20

type DocumentSummaryUseCase struct {
	summarizer ports.CaseSummarizer
	extractor  ports.TextExtractor
	maxBytes   int64
}

func NewDocumentSummaryUseCase(summarizer ports.CaseSummarizer, extractor ports.TextExtractor, maxBytes int64) *DocumentSummaryUseCase {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	return &DocumentSummaryUseCase{
		summarizer: summarizer,
		extractor:  extractor,
		maxBytes:   maxBytes,
	}
}

func (uc *DocumentSummaryUseCase) SummarizeUpload(ctx context.Context, filename string, body io.Reader) (*domain.DocumentSummary, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "summarize upload", errors.New("no selected file"))
	}

	data, err := io.ReadAll(io.LimitReader(body, uc.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, domain.WrapError(domain.ErrTooLarge, "summarize upload", fmt.Errorf("file exceeds %d bytes", uc.maxBytes))
	}
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "summarize upload", errors.New("empty upload"))
	}

	text, err := uc.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return &domain.DocumentSummary{Summary: domain.NoTextFoundMessage, Filename: name}, nil
	}

	return &domain.DocumentSummary{
		Summary:  uc.summarizer.Summarize(text),
		Filename: name,
	}, nil
}
