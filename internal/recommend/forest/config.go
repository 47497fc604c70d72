// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package forest

import (
	"fmt"
	"math"
	"runtime"

	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// Training defaults.
const (
	DefaultEstimators      = 20
	DefaultMinSamplesSplit = 2
	DefaultHoldoutFraction = 0.2
	DefaultSeed            = 42
)

// Config contains random forest training parameters.
// Zero values select the defaults.
type Config struct {
	// Estimators is the number of trees.
	Estimators int `json:"estimators"`

	// MaxDepth limits tree depth. Zero grows trees until leaves are pure.
	MaxDepth int `json:"max_depth"`

	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int `json:"min_samples_split"`

	// MaxFeatures is the number of candidate features drawn per split.
	// Zero uses floor(sqrt(NumFeatures)).
	MaxFeatures int `json:"max_features"`

	// HoldoutFraction is the share of each label held out for accuracy.
	HoldoutFraction float64 `json:"holdout_fraction"`

	// DisableBootstrap fits every tree on the full training split.
	DisableBootstrap bool `json:"disable_bootstrap"`

	// Seed drives the split, bootstrap and feature sampling.
	Seed int64 `json:"seed"`

	// Workers bounds concurrent tree fitting. Results do not depend on it.
	Workers int `json:"workers"`
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

//nolint:gocritic // value receiver returns an adjusted copy
func (c Config) withDefaults() Config {
	if c.Estimators <= 0 {
		c.Estimators = DefaultEstimators
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = DefaultMinSamplesSplit
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = int(math.Sqrt(recommend.NumFeatures))
	}
	if c.HoldoutFraction == 0 {
		c.HoldoutFraction = DefaultHoldoutFraction
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Validate checks the configuration after defaults are applied.
//
//nolint:gocritic // value receiver matches withDefaults
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.MaxFeatures > recommend.NumFeatures {
		return fmt.Errorf("max_features must be at most %d, got %d", recommend.NumFeatures, c.MaxFeatures)
	}
	if math.IsNaN(c.HoldoutFraction) || c.HoldoutFraction <= 0 || c.HoldoutFraction >= 1 {
		return fmt.Errorf("holdout_fraction must be in (0, 1), got %v", c.HoldoutFraction)
	}
	return nil
}
