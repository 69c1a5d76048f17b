package domain

import (
	"fmt"
	"strings"
)

const (
	NoValidTextMessage   = "No valid text found in the document."
	NoTextFoundMessage   = "No text found."
	DefaultSummaryLength = 4
)

// TieBreakPolicy decides the order of sentences with equal centrality.
type TieBreakPolicy string

const (
	TieBreakEarlier TieBreakPolicy = "earlier"
	TieBreakLater   TieBreakPolicy = "later"
)

func ParseTieBreakPolicy(raw string) TieBreakPolicy {
	if TieBreakPolicy(strings.ToLower(strings.TrimSpace(raw))) == TieBreakLater {
		return TieBreakLater
	}
	return TieBreakEarlier
}

// SummaryOptions bounds extractive summaries.
type SummaryOptions struct {
	MaxSentences int
	TieBreak     TieBreakPolicy
}

// DocumentSummary is the upload response.
type DocumentSummary struct {
	Summary  string `json:"summary"`
	Filename string `json:"filename"`
}

// FormatCaseSummary renders ranked sentences: the first is the lead, the rest
// are numbered key points.
func FormatCaseSummary(ranked []string) string {
	if len(ranked) == 0 {
		return NoValidTextMessage
	}
	var b strings.Builder
	b.WriteString("📌 **Case Summary**:\n")
	b.WriteString(ranked[0])
	if len(ranked) == 1 {
		return b.String()
	}
	b.WriteString("\n\n🔹 **Key Legal Points:**")
	for i, sentence := range ranked[1:] {
		fmt.Fprintf(&b, "\n%s %s", keycap(i+1), sentence)
	}
	return b.String()
}

// keycap renders n as a keycap emoji (digit, VS16, combining enclosing keycap).
func keycap(n int) string {
	if n < 0 || n > 9 {
		return fmt.Sprintf("%d.", n)
	}
	return fmt.Sprintf("%d️⃣", n)
}
