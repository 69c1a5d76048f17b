package usecase

import (
	"math"
	"sort"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
)

// scoreResolution is the precision at which centrality scores compare equal.
// Floating point summation order can otherwise split identical sentences by
// one ulp and bypass the tie-break policy.
const scoreResolution = 1e9

type SummarizeUseCase struct {
	segmenter ports.SentenceSegmenter
	scorer    ports.SentenceScorer
	options   domain.SummaryOptions
	observer  ports.SummaryObserver
}

func NewSummarizeUseCase(
	segmenter ports.SentenceSegmenter,
	scorer ports.SentenceScorer,
	options domain.SummaryOptions,
	observer ports.SummaryObserver,
) *SummarizeUseCase {
	if options.MaxSentences <= 0 {
		options.MaxSentences = domain.DefaultSummaryLength
	}
	if options.TieBreak == "" {
		options.TieBreak = domain.TieBreakEarlier
	}
	return &SummarizeUseCase{
		segmenter: segmenter,
		scorer:    scorer,
		options:   options,
		observer:  observer,
	}
}

// Summarize never fails: text without sentences yields the fixed
// no-valid-text message.
func (uc *SummarizeUseCase) Summarize(text string) string {
	sentences := uc.segmenter.Segment(text)
	if len(sentences) == 0 {
		uc.observe(0)
		return domain.NoValidTextMessage
	}

	ranked := uc.Rank(sentences)
	if len(ranked) > uc.options.MaxSentences {
		ranked = ranked[:uc.options.MaxSentences]
	}
	uc.observe(len(ranked))
	return domain.FormatCaseSummary(ranked)
}

// Rank orders sentences by descending centrality and resolves equal scores
// by sentence position according to the configured policy.
func (uc *SummarizeUseCase) Rank(sentences []string) []string {
	scores := uc.scorer.Score(sentences)
	if len(scores) != len(sentences) {
		scores = make([]float64, len(sentences))
	}
	keys := make([]float64, len(scores))
	for i, s := range scores {
		if math.IsNaN(s) {
			s = 0
		}
		keys[i] = math.Round(s*scoreResolution) / scoreResolution
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	later := uc.options.TieBreak == domain.TieBreakLater
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if keys[ia] != keys[ib] {
			return keys[ia] > keys[ib]
		}
		if later {
			return ia > ib
		}
		return ia < ib
	})

	ranked := make([]string, len(order))
	for i, idx := range order {
		ranked[i] = sentences[idx]
	}
	return ranked
}

func (uc *SummarizeUseCase) observe(selected int) {
	if uc.observer != nil {
		uc.observer.SummaryProduced(selected)
	}
}
