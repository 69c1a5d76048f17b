package plaintext

import (
	"context"
	"errors"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

func TestExtractTrimsAndStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("  The court ruled.\n")...)
	got, err := NewExtractor().Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "The court ruled." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractRejectsInvalidUTF8(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), []byte{0xff, 0xfe, 0x00})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
