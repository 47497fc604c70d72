// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package forest

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// Node is one node of a fitted decision tree, stored in preorder.
// Leaves have Left == -1 and carry the class distribution in Value.
type Node struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Value     []float64
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

type tree struct {
	nodes []Node
}

// distribution walks the tree and returns the leaf's class distribution.
func (t *tree) distribution(v *recommend.FeatureVector) []float64 {
	i := int32(0)
	for {
		n := &t.nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if v[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// treeBuilder grows one CART tree using Gini impurity.
type treeBuilder struct {
	x          []recommend.FeatureVector
	y          []int
	numClasses int
	cfg        Config
	rng        *rand.Rand
	nodes      []Node
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

// fitTree grows a tree over the given sample indices.
//
//nolint:gocritic // cfg passed by value, it is read-only here
func fitTree(x []recommend.FeatureVector, y []int, numClasses int, idx []int, cfg Config, rng *rand.Rand) tree {
	sample := idx
	if !cfg.DisableBootstrap {
		sample = make([]int, len(idx))
		for i := range sample {
			sample[i] = idx[rng.Intn(len(idx))]
		}
	}

	b := &treeBuilder{
		x:          x,
		y:          y,
		numClasses: numClasses,
		cfg:        cfg,
		rng:        rng,
	}
	b.grow(sample, 0)
	return tree{nodes: b.nodes}
}

func (b *treeBuilder) grow(idx []int, depth int) int32 {
	id := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1})

	counts := b.classCounts(idx)
	if b.shouldStop(idx, counts, depth) {
		b.nodes[id].Value = normalize(counts, len(idx))
		return id
	}

	s, ok := b.bestSplit(idx)
	if !ok {
		b.nodes[id].Value = normalize(counts, len(idx))
		return id
	}

	left, right := b.partition(idx, s)
	if len(left) == 0 || len(right) == 0 {
		b.nodes[id].Value = normalize(counts, len(idx))
		return id
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = Node{Feature: s.feature, Threshold: s.threshold, Left: l, Right: r}
	return id
}

func (b *treeBuilder) shouldStop(idx []int, counts []int, depth int) bool {
	if len(idx) < b.cfg.MinSamplesSplit {
		return true
	}
	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return true
	}
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

// bestSplit examines MaxFeatures randomly ordered candidate features and
// keeps going past that budget only while no valid split has been found.
func (b *treeBuilder) bestSplit(idx []int) (split, bool) {
	order := b.rng.Perm(recommend.NumFeatures)
	sorted := make([]int, len(idx))

	best := split{score: math.Inf(1)}
	found := false
	for visited, f := range order {
		if visited >= b.cfg.MaxFeatures && found {
			break
		}

		copy(sorted, idx)
		feature := f
		sort.Slice(sorted, func(i, j int) bool {
			return b.x[sorted[i]][feature] < b.x[sorted[j]][feature]
		})

		if s, ok := b.scanFeature(sorted, f); ok && s.score < best.score {
			best = s
			found = true
		}
	}
	return best, found
}

// scanFeature sweeps the sorted samples once, tracking left and right class
// counts. score is the size-weighted Gini impurity up to a constant factor:
// nl*gini(left) + nr*gini(right).
func (b *treeBuilder) scanFeature(sorted []int, f int) (split, bool) {
	n := len(sorted)
	left := make([]int, b.numClasses)
	right := b.classCounts(sorted)

	var sqLeft, sqRight float64
	for _, c := range right {
		sqRight += float64(c * c)
	}

	best := split{feature: f, score: math.Inf(1)}
	found := false
	for i := 0; i < n-1; i++ {
		c := b.y[sorted[i]]
		sqLeft += float64(2*left[c] + 1)
		left[c]++
		sqRight -= float64(2*right[c] - 1)
		right[c]--

		cur := b.x[sorted[i]][f]
		next := b.x[sorted[i+1]][f]
		if cur == next {
			continue
		}

		nl := float64(i + 1)
		nr := float64(n - i - 1)
		score := (nl - sqLeft/nl) + (nr - sqRight/nr)
		if score < best.score {
			threshold := cur + (next-cur)/2
			if threshold >= next {
				threshold = cur
			}
			best.score = score
			best.threshold = threshold
			found = true
		}
	}
	return best, found
}

func (b *treeBuilder) partition(idx []int, s split) (left, right []int) {
	for _, i := range idx {
		if b.x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func (b *treeBuilder) classCounts(idx []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func normalize(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}
