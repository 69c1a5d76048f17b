package ml

import (
	"math/rand/v2"
	"sort"
)

const leafMarker = -1

// Node is one vertex of a flattened binary decision tree. Leaves have
// Left == Right == -1 and carry Value: class probabilities for
// classification, a single mean for regression.
type Node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
	Value     []float64 `json:"v,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) leaf(x []float64) []float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Left == leafMarker {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

type treeParams struct {
	task            Task
	numClasses      int
	maxFeatures     int
	maxDepth        int
	minSamplesSplit int
}

// treeBuilder grows a CART tree over a row sample. Classification targets
// are class indices stored as float64 so both tasks share one code path.
type treeBuilder struct {
	x      [][]float64
	y      []float64
	params treeParams
	rng    *rand.Rand
	nodes  []Node
}

func buildTree(x [][]float64, y []float64, sample []int, params treeParams, rng *rand.Rand) Tree {
	b := &treeBuilder{x: x, y: y, params: params, rng: rng}
	b.grow(sample, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) grow(sample []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: leafMarker, Right: leafMarker})

	if len(sample) < b.params.minSamplesSplit ||
		(b.params.maxDepth > 0 && depth >= b.params.maxDepth) ||
		b.pure(sample) {
		b.nodes[idx].Value = b.leafValue(sample)
		return idx
	}

	feature, threshold, ok := b.bestSplit(sample)
	if !ok {
		b.nodes[idx].Value = b.leafValue(sample)
		return idx
	}

	left := make([]int, 0, len(sample))
	right := make([]int, 0, len(sample))
	for _, row := range sample {
		if b.x[row][feature] <= threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Feature = feature
	b.nodes[idx].Threshold = threshold
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

func (b *treeBuilder) pure(sample []int) bool {
	first := b.y[sample[0]]
	for _, row := range sample[1:] {
		if b.y[row] != first {
			return false
		}
	}
	return true
}

func (b *treeBuilder) leafValue(sample []int) []float64 {
	if b.params.task == Regression {
		sum := 0.0
		for _, row := range sample {
			sum += b.y[row]
		}
		return []float64{sum / float64(len(sample))}
	}
	probs := make([]float64, b.params.numClasses)
	for _, row := range sample {
		probs[int(b.y[row])]++
	}
	for i := range probs {
		probs[i] /= float64(len(sample))
	}
	return probs
}

// bestSplit scans a random feature subset and returns the threshold with the
// largest impurity decrease. Both criteria reduce to maximizing a proxy:
// sum(count^2)/n per child for Gini, sum(y)^2/n per child for squared error.
func (b *treeBuilder) bestSplit(sample []int) (int, float64, bool) {
	numFeatures := len(b.x[0])
	candidates := b.rng.Perm(numFeatures)[:b.params.maxFeatures]

	bestProxy := b.parentProxy(sample)
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(sample))
	for _, feature := range candidates {
		copy(order, sample)
		sort.SliceStable(order, func(i, j int) bool {
			return b.x[order[i]][feature] < b.x[order[j]][feature]
		})

		sweep := b.newSweep(order)
		for i := 0; i < len(order)-1; i++ {
			sweep.move(order[i])
			cur := b.x[order[i]][feature]
			next := b.x[order[i+1]][feature]
			if cur == next {
				continue
			}
			proxy := sweep.proxy()
			if proxy > bestProxy+1e-12 {
				bestProxy = proxy
				bestFeature = feature
				bestThreshold = cur + (next-cur)/2
			}
		}
	}
	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (b *treeBuilder) parentProxy(sample []int) float64 {
	s := b.newSweep(sample)
	return s.proxyOf(s.right, s.rightSum, len(sample))
}

type sweep struct {
	task              Task
	left, right       []float64
	leftSum, rightSum float64
	nLeft, nTotal     int
	y                 []float64
}

func (b *treeBuilder) newSweep(order []int) *sweep {
	s := &sweep{task: b.params.task, nTotal: len(order), y: b.y}
	if s.task == Classification {
		s.left = make([]float64, b.params.numClasses)
		s.right = make([]float64, b.params.numClasses)
	}
	for _, row := range order {
		if s.task == Classification {
			s.right[int(b.y[row])]++
		} else {
			s.rightSum += b.y[row]
		}
	}
	return s
}

func (s *sweep) move(row int) {
	s.nLeft++
	if s.task == Classification {
		c := int(s.y[row])
		s.left[c]++
		s.right[c]--
		return
	}
	s.leftSum += s.y[row]
	s.rightSum -= s.y[row]
}

func (s *sweep) proxy() float64 {
	return s.proxyOf(s.left, s.leftSum, s.nLeft) + s.proxyOf(s.right, s.rightSum, s.nTotal-s.nLeft)
}

func (s *sweep) proxyOf(counts []float64, sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	if s.task == Regression {
		return sum * sum / float64(n)
	}
	total := 0.0
	for _, c := range counts {
		total += c * c
	}
	return total / float64(n)
}
