package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

func TestSummarizeUploadReturnsSummaryAndFilename(t *testing.T) {
	extractor := &extractorFake{text: "The court granted custody."}
	summarizer := &summarizerFake{}
	uc := NewDocumentSummaryUseCase(summarizer, extractor, 0)

	got, err := uc.SummarizeUpload(context.Background(), "../cases/ruling.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("SummarizeUpload() error = %v", err)
	}
	if got.Filename != "ruling.pdf" {
		t.Fatalf("expected base filename, got %q", got.Filename)
	}
	if got.Summary != "summary of The court granted custody." {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
	if string(extractor.got) != "%PDF-1.4" {
		t.Fatalf("extractor received %q", extractor.got)
	}
}

func TestSummarizeUploadNoText(t *testing.T) {
	summarizer := &summarizerFake{}
	uc := NewDocumentSummaryUseCase(summarizer, &extractorFake{text: " \n"}, 0)

	got, err := uc.SummarizeUpload(context.Background(), "scan.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("SummarizeUpload() error = %v", err)
	}
	if got.Summary != domain.NoTextFoundMessage {
		t.Fatalf("expected %q, got %q", domain.NoTextFoundMessage, got.Summary)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer must not run without text")
	}
}

func TestSummarizeUploadRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		maxBytes int64
	}{
		{name: "missing filename", filename: " ", body: "text"},
		{name: "empty body", filename: "a.txt", body: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewDocumentSummaryUseCase(&summarizerFake{}, &extractorFake{text: "x"}, tc.maxBytes)
			_, err := uc.SummarizeUpload(context.Background(), tc.filename, strings.NewReader(tc.body))
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestSummarizeUploadRejectsOversizedFile(t *testing.T) {
	uc := NewDocumentSummaryUseCase(&summarizerFake{}, &extractorFake{text: "x"}, 4)
	_, err := uc.SummarizeUpload(context.Background(), "a.txt", strings.NewReader("0123456789"))
	if !errors.Is(err, domain.ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("oversized file must not be reported as invalid input: %v", err)
	}
}

func TestSummarizeUploadPropagatesExtractorError(t *testing.T) {
	extractErr := domain.WrapError(domain.ErrInvalidInput, "sniff", errors.New("unsupported type image/png"))
	uc := NewDocumentSummaryUseCase(&summarizerFake{}, &extractorFake{err: extractErr}, 0)

	_, err := uc.SummarizeUpload(context.Background(), "photo.png", strings.NewReader("\x89PNG"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
