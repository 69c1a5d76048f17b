package nlp

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tokenize lower-cases s and returns every run of at least two letters,
// digits or underscores.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 16)
	var b strings.Builder
	runes := 0
	flush := func() {
		if runes >= 2 {
			out = append(out, b.String())
		}
		b.Reset()
		runes = 0
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
			runes++
			continue
		}
		flush()
	}
	flush()
	return out
}

// Vectorize builds the TF-IDF matrix of docs over their own vocabulary. Rows
// are L2-normalized and idf is smoothed as ln((1+n)/(1+df))+1. It returns nil
// when no document has a usable token.
func Vectorize(docs []string) (*mat.Dense, []string) {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]float64, 64)
	for i, doc := range docs {
		tf := make(map[string]float64, 16)
		for _, term := range tokenize(doc) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}
	if len(df) == 0 {
		return nil, nil
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	column := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for j, term := range vocab {
		column[term] = j
		idf[j] = math.Log((1+n)/(1+df[term])) + 1
	}

	x := mat.NewDense(len(docs), len(vocab), nil)
	for i, tf := range counts {
		row := x.RawRowView(i)
		for term, c := range tf {
			j := column[term]
			row[j] = c * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return x, vocab
}
