package sniff

import (
	"context"
	"errors"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

type recordingExtractor struct {
	name  string
	calls int
}

func (r *recordingExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	r.calls++
	return r.name, nil
}

func TestExtractRoutesByContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "pdf", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"), want: "pdf"},
		{name: "text", data: []byte("The petitioner filed for divorce. The court granted custody."), want: "text"},
		{name: "csv", data: []byte("a,b,c\n1,2,3\n4,5,6\n"), want: "text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pdf := &recordingExtractor{name: "pdf"}
			text := &recordingExtractor{name: "text"}
			got, err := NewExtractor(pdf, text).Extract(context.Background(), tc.data)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("routed to %s, want %s (detected %s)", got, tc.want, DetectType(tc.data))
			}
		})
	}
}

func TestExtractRejectsBinaryUploads(t *testing.T) {
	pdf := &recordingExtractor{name: "pdf"}
	text := &recordingExtractor{name: "text"}
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	_, err := NewExtractor(pdf, text).Extract(context.Background(), png)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if pdf.calls+text.calls != 0 {
		t.Fatalf("no extractor should run for binary uploads")
	}
}
