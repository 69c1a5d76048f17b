package nlp

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CentralityScorer scores sentences by the row sums of their pairwise cosine
// similarity matrix.
type CentralityScorer struct{}

func NewCentralityScorer() CentralityScorer {
	return CentralityScorer{}
}

func (CentralityScorer) Score(sentences []string) []float64 {
	scores := make([]float64, len(sentences))
	sim := SimilarityMatrix(sentences)
	if sim == nil {
		return scores
	}
	for i := range scores {
		scores[i] = floats.Sum(sim.RawRowView(i))
	}
	return scores
}

// SimilarityMatrix returns the cosine similarity of every sentence pair, or
// nil when the sentences share no vocabulary at all. Rows of the TF-IDF
// matrix are unit length, so X·Xᵀ is already the cosine matrix.
func SimilarityMatrix(sentences []string) *mat.Dense {
	x, _ := Vectorize(sentences)
	if x == nil {
		return nil
	}
	n, _ := x.Dims()
	sim := mat.NewDense(n, n, nil)
	sim.Mul(x, x.T())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Clamp rounding noise so the matrix stays non-negative.
			if v := sim.At(i, j); v < 0 {
				sim.Set(i, j, 0)
			}
		}
	}
	return sim
}
