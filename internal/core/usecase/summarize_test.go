package usecase

import (
	"strings"
	"testing"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/nlp"
)

type summaryObserverFake struct {
	selected []int
}

func (f *summaryObserverFake) SummaryProduced(selected int) {
	f.selected = append(f.selected, selected)
}

func keyPointLines(summary string) int {
	n := 0
	for _, line := range strings.Split(summary, "\n") {
		if strings.Contains(line, "⃣ ") {
			n++
		}
	}
	return n
}

func newNLPSummarizer(t *testing.T, options domain.SummaryOptions) *SummarizeUseCase {
	t.Helper()
	seg, err := nlp.NewPunktSegmenter()
	if err != nil {
		t.Fatalf("NewPunktSegmenter() error = %v", err)
	}
	return NewSummarizeUseCase(seg, nlp.NewCentralityScorer(), options, nil)
}

func TestSummarizeThreeSentenceCase(t *testing.T) {
	uc := newNLPSummarizer(t, domain.SummaryOptions{})
	text := "Sentence one about custody. Sentence two about custody. Sentence three unrelated."

	got := uc.Summarize(text)
	want := "📌 **Case Summary**:\nSentence one about custody.\n\n🔹 **Key Legal Points:**\n" +
		"1️⃣ Sentence two about custody.\n2️⃣ Sentence three unrelated."
	if got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
	if again := uc.Summarize(text); again != got {
		t.Fatalf("summary is not deterministic")
	}
}

func TestSummarizeLaterTieBreak(t *testing.T) {
	uc := newNLPSummarizer(t, domain.SummaryOptions{TieBreak: domain.TieBreakLater})
	got := uc.Summarize("Sentence one about custody. Sentence two about custody. Sentence three unrelated.")
	if !strings.HasPrefix(got, "📌 **Case Summary**:\nSentence two about custody.\n") {
		t.Fatalf("expected later sentence to lead, got:\n%s", got)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	observer := &summaryObserverFake{}
	seg, err := nlp.NewPunktSegmenter()
	if err != nil {
		t.Fatalf("NewPunktSegmenter() error = %v", err)
	}
	uc := NewSummarizeUseCase(seg, nlp.NewCentralityScorer(), domain.SummaryOptions{}, observer)

	for _, text := range []string{"", "   \n "} {
		if got := uc.Summarize(text); got != domain.NoValidTextMessage {
			t.Fatalf("Summarize(%q) = %q", text, got)
		}
	}
	if len(observer.selected) != 2 || observer.selected[0] != 0 {
		t.Fatalf("unexpected observations %v", observer.selected)
	}
}

func TestSummarizeKeyPointCount(t *testing.T) {
	tests := []struct {
		name      string
		sentences int
		want      int
	}{
		{name: "single", sentences: 1, want: 0},
		{name: "two", sentences: 2, want: 1},
		{name: "four", sentences: 4, want: 3},
		{name: "many", sentences: 9, want: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sentences := make([]string, tc.sentences)
			for i := range sentences {
				sentences[i] = "Point " + string(rune('a'+i)) + "."
			}
			uc := NewSummarizeUseCase(segmenterFake{sentences: sentences}, scorerFake{}, domain.SummaryOptions{}, nil)
			got := uc.Summarize("ignored")
			if !strings.HasPrefix(got, "📌 **Case Summary**:\n") {
				t.Fatalf("missing lead line: %q", got)
			}
			if n := keyPointLines(got); n != tc.want {
				t.Fatalf("expected %d key points, got %d in %q", tc.want, n, got)
			}
			if tc.want == 0 && strings.Contains(got, "Key Legal Points") {
				t.Fatalf("single sentence summary must omit key points header")
			}
		})
	}
}

func TestRankOrdersByScoreThenPolicy(t *testing.T) {
	sentences := []string{"a", "b", "c", "d"}
	scores := scorerFake{scores: []float64{1, 3, 1, 2}}

	earlier := NewSummarizeUseCase(segmenterFake{}, scores, domain.SummaryOptions{TieBreak: domain.TieBreakEarlier}, nil)
	if got := strings.Join(earlier.Rank(sentences), ""); got != "bdac" {
		t.Fatalf("earlier policy ranked %q", got)
	}

	later := NewSummarizeUseCase(segmenterFake{}, scores, domain.SummaryOptions{TieBreak: domain.TieBreakLater}, nil)
	if got := strings.Join(later.Rank(sentences), ""); got != "bdca" {
		t.Fatalf("later policy ranked %q", got)
	}
}

func TestRankTreatsRoundingNoiseAsTie(t *testing.T) {
	sentences := []string{"a", "b"}
	uc := NewSummarizeUseCase(segmenterFake{}, scorerFake{scores: []float64{1.5, 1.5 + 1e-15}}, domain.SummaryOptions{}, nil)
	if got := strings.Join(uc.Rank(sentences), ""); got != "ab" {
		t.Fatalf("expected tie resolved by position, got %q", got)
	}
}

func TestSummarizeRespectsMaxSentences(t *testing.T) {
	sentences := []string{"A.", "B.", "C.", "D.", "E."}
	uc := NewSummarizeUseCase(segmenterFake{sentences: sentences}, scorerFake{}, domain.SummaryOptions{MaxSentences: 2}, nil)
	if n := keyPointLines(uc.Summarize("x")); n != 1 {
		t.Fatalf("expected 1 key point, got %d", n)
	}
}
