// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package forest implements a random forest classifier over crop feature
// vectors.
//
// Each tree is a CART tree grown on a bootstrap sample of the training
// split, choosing among a random subset of features at every node by Gini
// impurity. Class probabilities are the mean of the per-tree leaf
// distributions; Classify returns their argmax.
//
// Training is deterministic for a given Config.Seed regardless of how many
// workers fit trees in parallel: every tree draws from its own source seeded
// up front.
package forest

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// Report summarizes a training run. Accuracy is reported, never enforced.
type Report struct {
	Estimators      int           `json:"estimators"`
	Samples         int           `json:"samples"`
	TrainSize       int           `json:"train_size"`
	HoldoutSize     int           `json:"holdout_size"`
	Labels          int           `json:"labels"`
	Correct         int           `json:"correct"`
	HoldoutAccuracy float64       `json:"holdout_accuracy"`
	Seed            int64         `json:"seed"`
	Duration        time.Duration `json:"duration"`
	TrainedAt       time.Time     `json:"trained_at"`
}

// Forest is a fitted random forest. It is immutable and safe for
// concurrent use.
type Forest struct {
	labels []string
	trees  []tree
	report Report
}

var _ recommend.Model = (*Forest)(nil)

// Train fits a forest on samples.
//
// It returns recommend.ErrInsufficientTrainingData when samples is empty or
// holds fewer than two distinct labels. Cancelling ctx stops training before
// the next tree starts.
//
//nolint:gocritic // cfg passed by value so callers keep their copy unchanged
func Train(ctx context.Context, samples []recommend.Sample, cfg Config) (*Forest, Report, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, Report{}, fmt.Errorf("invalid forest config: %w", err)
	}

	if len(samples) == 0 {
		return nil, Report{}, fmt.Errorf("%w: no samples", recommend.ErrInsufficientTrainingData)
	}
	labels, y := encodeLabels(samples)
	if len(labels) < 2 {
		return nil, Report{}, fmt.Errorf("%w: need at least 2 distinct labels, got %d",
			recommend.ErrInsufficientTrainingData, len(labels))
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // math/rand is fine for model training

	x := make([]recommend.FeatureVector, len(samples))
	for i := range samples {
		x[i] = samples[i].Features
	}

	trainIdx, holdoutIdx := StratifiedSplit(y, len(labels), cfg.HoldoutFraction, rng)

	seeds := make([]int64, cfg.Estimators)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	trees := make([]tree, cfg.Estimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			treeRNG := rand.New(rand.NewSource(seeds[i])) //nolint:gosec // math/rand is fine for model training
			trees[i] = fitTree(x, y, len(labels), trainIdx, cfg, treeRNG)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, fmt.Errorf("training interrupted: %w", err)
	}

	f := &Forest{labels: labels, trees: trees}

	correct := 0
	for _, i := range holdoutIdx {
		if f.Classify(x[i]) == labels[y[i]] {
			correct++
		}
	}
	accuracy := 0.0
	if len(holdoutIdx) > 0 {
		accuracy = float64(correct) / float64(len(holdoutIdx))
	}

	f.report = Report{
		Estimators:      cfg.Estimators,
		Samples:         len(samples),
		TrainSize:       len(trainIdx),
		HoldoutSize:     len(holdoutIdx),
		Labels:          len(labels),
		Correct:         correct,
		HoldoutAccuracy: accuracy,
		Seed:            cfg.Seed,
		Duration:        time.Since(start),
		TrainedAt:       start.UTC(),
	}
	return f, f.report, nil
}

// encodeLabels maps labels to dense indices in first-seen order.
func encodeLabels(samples []recommend.Sample) ([]string, []int) {
	index := make(map[string]int)
	var labels []string
	y := make([]int, len(samples))
	for i, s := range samples {
		idx, ok := index[s.Label]
		if !ok {
			idx = len(labels)
			index[s.Label] = idx
			labels = append(labels, s.Label)
		}
		y[i] = idx
	}
	return labels, y
}

// Labels returns the class labels in training order.
func (f *Forest) Labels() []string {
	out := make([]string, len(f.labels))
	copy(out, f.labels)
	return out
}

// NumTrees returns the number of fitted trees.
func (f *Forest) NumTrees() int {
	return len(f.trees)
}

// Report returns the training summary.
func (f *Forest) Report() Report {
	return f.report
}

func (f *Forest) mean(v *recommend.FeatureVector) []float64 {
	sums := make([]float64, len(f.labels))
	for i := range f.trees {
		for c, p := range f.trees[i].distribution(v) {
			sums[c] += p
		}
	}
	if n := float64(len(f.trees)); n > 0 {
		for c := range sums {
			sums[c] /= n
		}
	}
	return sums
}

// Probabilities returns the mean leaf distribution across all trees.
func (f *Forest) Probabilities(v recommend.FeatureVector) []recommend.ClassProbability {
	means := f.mean(&v)
	out := make([]recommend.ClassProbability, len(f.labels))
	for c, label := range f.labels {
		out[c] = recommend.ClassProbability{Label: label, Probability: means[c]}
	}
	return out
}

// Classify returns the most probable label. Ties go to the label seen first
// during training.
func (f *Forest) Classify(v recommend.FeatureVector) string {
	means := f.mean(&v)
	best := 0
	for c := 1; c < len(means); c++ {
		if means[c] > means[best] {
			best = c
		}
	}
	if len(f.labels) == 0 {
		return ""
	}
	return f.labels[best]
}
