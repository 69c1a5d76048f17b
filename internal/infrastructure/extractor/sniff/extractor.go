// Package sniff routes uploads to a text extractor by detected content type.
package sniff

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
)

type Extractor struct {
	pdf  ports.TextExtractor
	text ports.TextExtractor
}

func NewExtractor(pdf, text ports.TextExtractor) *Extractor {
	return &Extractor{pdf: pdf, text: text}
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is("application/pdf"):
		return e.pdf.Extract(ctx, data)
	case isText(detected):
		return e.text.Extract(ctx, data)
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "detect content type", fmt.Errorf("invalid file type %s", detected.String()))
	}
}

// DetectType reports the sniffed MIME type of data.
func DetectType(data []byte) string {
	return mimetype.Detect(data).String()
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
