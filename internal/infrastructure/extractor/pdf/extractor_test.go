package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

func TestExtractRejectsMalformedDocuments(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("this is not a pdf"),
		"truncated": []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"),
	} {
		_, err := NewExtractor().Extract(context.Background(), data)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}
