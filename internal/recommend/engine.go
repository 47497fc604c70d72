// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Note: this package does not import other internal packages. The model is
// injected through the Model interface, which keeps the forest, storage and
// lifecycle packages free to depend on the types defined here.

// Engine answers crop recommendation requests against a single model.
// It is safe for concurrent use.
type Engine struct {
	model  Model
	config *Config
	logger zerolog.Logger
}

// NewEngine creates an inference engine for model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(model Model, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		model:  model,
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend parses raw request fields and runs inference.
//
// Field errors are returned as *FieldError matching ErrMissingField or
// ErrInvalidField. They never touch the shared model.
func (e *Engine) Recommend(ctx context.Context, fields map[string]any) (*Recommendation, error) {
	m, err := ParseMeasurements(fields, e.config)
	if err != nil {
		e.logger.Debug().Err(err).Msg("rejected crop request")
		return nil, err
	}

	return e.recommend(ctx, m)
}

//nolint:gocritic // m passed by value for immutability
func (e *Engine) recommend(ctx context.Context, m Measurements) (*Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := m.Vector()
	primary := e.model.Classify(v)
	ranked := e.Rank(v)
	if primary == "" || len(ranked) == 0 {
		return nil, fmt.Errorf("%w: model produced no prediction", ErrRecommendationFailed)
	}

	top := ranked
	if len(top) > e.config.Alternatives {
		top = top[:e.config.Alternatives]
	}
	alternatives := make([]string, len(top))
	for i, cp := range top {
		alternatives[i] = cp.Label
	}

	e.logger.Debug().
		Str("primary", primary).
		Strs("alternatives", alternatives).
		Float64("confidence", top[0].Probability).
		Msg("crop recommendation complete")

	return &Recommendation{
		Primary:      primary,
		Alternatives: alternatives,
		Ranked:       top,
		Input:        m,
	}, nil
}

// Rank returns every label ordered by descending probability. Equal
// probabilities keep the model's training label order.
func (e *Engine) Rank(v FeatureVector) []ClassProbability {
	probs := e.model.Probabilities(v)
	ranked := make([]ClassProbability, len(probs))
	copy(ranked, probs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked
}
