// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/cropadvisor/internal/history"
	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/lifecycle"
)

// DefaultMaxBodyBytes caps recommendation request bodies.
const DefaultMaxBodyBytes = 64 << 10

// CropRecommender produces crop recommendations from request fields.
// *recommend.Engine implements it.
type CropRecommender interface {
	Recommend(ctx context.Context, fields map[string]any) (*recommend.Recommendation, error)
}

// ModelInfoSource describes the live model. *lifecycle.Handle implements it.
type ModelInfoSource interface {
	Info() lifecycle.ModelInfo
}

// HistoryRecorder accepts advisory records for asynchronous saving.
// *history.Recorder implements it.
type HistoryRecorder interface {
	Record(rec history.Record) bool
	Pending() int
}

// HistoryReader lists stored advisory records. *history.Store implements it.
type HistoryReader interface {
	ListByFarmer(ctx context.Context, farmerUID string, limit int) ([]history.Record, error)
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of a Handler. Crop and Model are
// required; history is optional and disabled when Recorder or Reader is nil.
type Dependencies struct {
	Crop     CropRecommender
	Model    ModelInfoSource
	Recorder HistoryRecorder
	Reader   HistoryReader

	// MaxBodyBytes caps request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Handler serves the advisory endpoints.
type Handler struct {
	crop         CropRecommender
	model        ModelInfoSource
	recorder     HistoryRecorder
	reader       HistoryReader
	maxBodyBytes int64
	startTime    time.Time

	ready atomic.Bool
}

// NewHandler creates a Handler. It reports ready immediately.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Crop == nil {
		return nil, errors.New("crop recommender is required")
	}
	if deps.Model == nil {
		return nil, errors.New("model info source is required")
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxBodyBytes
	}

	h := &Handler{
		crop:         deps.Crop,
		model:        deps.Model,
		recorder:     deps.Recorder,
		reader:       deps.Reader,
		maxBodyBytes: deps.MaxBodyBytes,
		startTime:    time.Now(),
	}
	h.ready.Store(true)
	return h, nil
}

// SetReady flips the readiness probe, e.g. to drain traffic before shutdown.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}
