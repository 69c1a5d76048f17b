package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type Task string

const (
	Classification Task = "classification"
	Regression     Task = "regression"
)

// ForestConfig controls random forest fitting. Zero values select the
// defaults: 100 trees, unlimited depth, 2 samples to split, sqrt(p) features
// per split for classification and all p features for regression.
type ForestConfig struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            uint64
	Workers         int
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        100,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

func (c ForestConfig) normalize(task Task, numFeatures int) ForestConfig {
	out := c
	if out.NumTrees <= 0 {
		out.NumTrees = 100
	}
	if out.MaxDepth < 0 {
		out.MaxDepth = 0
	}
	if out.MinSamplesSplit < 2 {
		out.MinSamplesSplit = 2
	}
	if out.MaxFeatures <= 0 {
		if task == Classification {
			out.MaxFeatures = int(math.Sqrt(float64(numFeatures)))
		} else {
			out.MaxFeatures = numFeatures
		}
	}
	if out.MaxFeatures < 1 {
		out.MaxFeatures = 1
	}
	if out.MaxFeatures > numFeatures {
		out.MaxFeatures = numFeatures
	}
	if out.Workers <= 0 {
		out.Workers = runtime.GOMAXPROCS(0)
	}
	return out
}

// Forest is a fitted bootstrap-aggregated ensemble of CART trees.
type Forest struct {
	Task        Task     `json:"task"`
	NumFeatures int      `json:"num_features"`
	Classes     []string `json:"classes,omitempty"`
	Trees       []Tree   `json:"trees"`
}

// FitClassifier fits a Gini forest. Classes are stored sorted, which is
// also the tie-break order when averaged probabilities are equal.
func FitClassifier(ctx context.Context, x [][]float64, labels []string, cfg ForestConfig) (*Forest, error) {
	if len(labels) != len(x) {
		return nil, fmt.Errorf("fit classifier: %d rows, %d labels", len(x), len(labels))
	}
	seen := make(map[string]struct{}, 4)
	for _, label := range labels {
		seen[label] = struct{}{}
	}
	classes := sortedKeys(seen)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	y := make([]float64, len(labels))
	for i, label := range labels {
		y[i] = float64(index[label])
	}

	forest, err := fitForest(ctx, Classification, x, y, len(classes), cfg)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	forest.Classes = classes
	return forest, nil
}

// FitRegressor fits a squared-error forest.
func FitRegressor(ctx context.Context, x [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(y) != len(x) {
		return nil, fmt.Errorf("fit regressor: %d rows, %d targets", len(x), len(y))
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("fit regressor: target %d is not finite", i)
		}
	}
	forest, err := fitForest(ctx, Regression, x, y, 0, cfg)
	if err != nil {
		return nil, fmt.Errorf("fit regressor: %w", err)
	}
	return forest, nil
}

func fitForest(ctx context.Context, task Task, x [][]float64, y []float64, numClasses int, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty training matrix")
	}
	numFeatures := len(x[0])
	if numFeatures == 0 {
		return nil, fmt.Errorf("training matrix has no features")
	}
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), numFeatures)
		}
	}
	cfg = cfg.normalize(task, numFeatures)
	params := treeParams{
		task:            task,
		numClasses:      numClasses,
		maxFeatures:     cfg.MaxFeatures,
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: cfg.MinSamplesSplit,
	}

	trees := make([]Tree, cfg.NumTrees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each tree owns a stream derived from (seed, index) so the
			// result does not depend on scheduling.
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)+1))
			sample := make([]int, len(x))
			for j := range sample {
				sample[j] = rng.IntN(len(x))
			}
			trees[i] = buildTree(x, y, sample, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{
		Task:        task,
		NumFeatures: numFeatures,
		Trees:       trees,
	}, nil
}

func (f *Forest) validate() error {
	if f == nil {
		return fmt.Errorf("forest is nil")
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	switch f.Task {
	case Classification:
		if len(f.Classes) == 0 {
			return fmt.Errorf("classifier has no classes")
		}
	case Regression:
	default:
		return fmt.Errorf("unknown forest task %q", f.Task)
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range tree.Nodes {
			if n.Left == leafMarker {
				want := 1
				if f.Task == Classification {
					want = len(f.Classes)
				}
				if len(n.Value) != want {
					return fmt.Errorf("tree %d leaf %d has %d values, expected %d", ti, ni, len(n.Value), want)
				}
				continue
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has invalid children", ti, ni)
			}
			if n.Feature < 0 || n.Feature >= f.NumFeatures {
				return fmt.Errorf("tree %d node %d splits on feature %d of %d", ti, ni, n.Feature, f.NumFeatures)
			}
		}
	}
	return nil
}

// PredictProba averages leaf class probabilities across trees.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if f.Task != Classification {
		return nil, fmt.Errorf("predict proba: forest task is %s", f.Task)
	}
	if len(x) != f.NumFeatures {
		return nil, fmt.Errorf("predict proba: got %d features, expected %d", len(x), f.NumFeatures)
	}
	probs := make([]float64, len(f.Classes))
	for _, tree := range f.Trees {
		for i, p := range tree.leaf(x) {
			probs[i] += p
		}
	}
	for i := range probs {
		probs[i] /= float64(len(f.Trees))
	}
	return probs, nil
}

func (f *Forest) PredictLabel(x []float64) (string, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return "", err
	}
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return f.Classes[best], nil
}

func (f *Forest) PredictValue(x []float64) (float64, error) {
	if f.Task != Regression {
		return 0, fmt.Errorf("predict value: forest task is %s", f.Task)
	}
	if len(x) != f.NumFeatures {
		return 0, fmt.Errorf("predict value: got %d features, expected %d", len(x), f.NumFeatures)
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.leaf(x)[0]
	}
	return sum / float64(len(f.Trees)), nil
}
