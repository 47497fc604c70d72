// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package forest

import (
	"fmt"
	"math"

	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// StateVersion is bumped whenever the State layout changes.
const StateVersion = 1

// State is the serializable form of a Forest.
type State struct {
	Version     int
	NumFeatures int
	Labels      []string
	Trees       [][]Node
	Report      Report
}

// State exports the forest for persistence.
func (f *Forest) State() *State {
	trees := make([][]Node, len(f.trees))
	for i := range f.trees {
		trees[i] = f.trees[i].nodes
	}
	return &State{
		Version:     StateVersion,
		NumFeatures: recommend.NumFeatures,
		Labels:      f.Labels(),
		Trees:       trees,
		Report:      f.report,
	}
}

// Validate checks that the state describes a usable forest. Every failure
// wraps recommend.ErrArtifactCorrupt.
//
//nolint:gocyclo // one check per structural invariant
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: empty state", recommend.ErrArtifactCorrupt)
	}
	if s.Version != StateVersion {
		return fmt.Errorf("%w: state version %d, want %d", recommend.ErrArtifactCorrupt, s.Version, StateVersion)
	}
	if s.NumFeatures != recommend.NumFeatures {
		return fmt.Errorf("%w: model expects %d features, want %d", recommend.ErrArtifactCorrupt, s.NumFeatures, recommend.NumFeatures)
	}
	if len(s.Labels) < 2 {
		return fmt.Errorf("%w: %d labels", recommend.ErrArtifactCorrupt, len(s.Labels))
	}
	seen := make(map[string]bool, len(s.Labels))
	for _, l := range s.Labels {
		if seen[l] {
			return fmt.Errorf("%w: duplicate label %q", recommend.ErrArtifactCorrupt, l)
		}
		seen[l] = true
	}
	if len(s.Trees) == 0 {
		return fmt.Errorf("%w: no trees", recommend.ErrArtifactCorrupt)
	}

	for t, nodes := range s.Trees {
		if len(nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", recommend.ErrArtifactCorrupt, t)
		}
		for i := range nodes {
			if err := validateNode(&nodes[i], i, len(nodes), len(s.Labels)); err != nil {
				return fmt.Errorf("%w: tree %d node %d: %s", recommend.ErrArtifactCorrupt, t, i, err)
			}
		}
	}
	return nil
}

// validateNode rejects out-of-range references. Children must come after
// their parent, which rules out cycles.
func validateNode(n *Node, i, count, numLabels int) error {
	if n.IsLeaf() {
		if len(n.Value) != numLabels {
			return fmt.Errorf("leaf has %d classes, want %d", len(n.Value), numLabels)
		}
		for _, p := range n.Value {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return fmt.Errorf("invalid probability %v", p)
			}
		}
		return nil
	}
	if n.Feature < 0 || n.Feature >= recommend.NumFeatures {
		return fmt.Errorf("feature %d out of range", n.Feature)
	}
	if int(n.Left) <= i || int(n.Left) >= count || int(n.Right) <= i || int(n.Right) >= count {
		return fmt.Errorf("child out of range (%d, %d)", n.Left, n.Right)
	}
	return nil
}

// FromState rebuilds a Forest from persisted state.
func FromState(s *State) (*Forest, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	trees := make([]tree, len(s.Trees))
	for i, nodes := range s.Trees {
		trees[i] = tree{nodes: nodes}
	}
	labels := make([]string, len(s.Labels))
	copy(labels, s.Labels)
	return &Forest{labels: labels, trees: trees, report: s.Report}, nil
}
