// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package lifecycle loads the persisted crop model or trains a fresh one.
//
// At startup the Manager asks the artifact store for a model. A valid
// artifact is used as is. A missing or corrupt artifact triggers training on
// synthetic samples from the crop profile registry, after which the new
// model is saved over the old artifact. A failed save is logged and the
// in-memory model is still served.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cropadvisor/internal/metrics"
	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/forest"
	"github.com/tomtom215/cropadvisor/internal/recommend/profiles"
	"github.com/tomtom215/cropadvisor/internal/recommend/storage"
	"github.com/tomtom215/cropadvisor/internal/recommend/synth"
)

// ArtifactStore persists model state.
type ArtifactStore interface {
	Load(ctx context.Context) storage.LoadResult
	Save(ctx context.Context, state *forest.State, meta storage.Metadata) (*storage.Metadata, error)
	Path() string
}

// Source says where the live model came from.
type Source string

// Model sources.
const (
	SourceArtifact Source = "artifact"
	SourceTrained  Source = "trained"
)

// Config controls training when no usable artifact exists.
type Config struct {
	Forest forest.Config

	// SamplesPerCrop is the synthetic sample count per profile.
	SamplesPerCrop int

	// Profiles overrides the built-in registry. Nil uses profiles.All().
	Profiles []profiles.Profile
}

// ModelInfo describes the live model.
type ModelInfo struct {
	Source          Source         `json:"source"`
	TrainedAt       time.Time      `json:"trained_at"`
	LoadedAt        time.Time      `json:"loaded_at"`
	HoldoutAccuracy float64        `json:"holdout_accuracy"`
	TrainSize       int            `json:"train_size"`
	HoldoutSize     int            `json:"holdout_size"`
	Labels          []string       `json:"labels"`
	Estimators      int            `json:"estimators"`
	ArtifactPath    string         `json:"artifact_path"`
	LoadStatus      storage.Status `json:"load_status"`
	CorruptReason   string         `json:"corrupt_reason,omitempty"`
	Persisted       bool           `json:"persisted"`
}

// Handle is the ready model plus its provenance. It is read-only and safe
// for concurrent use.
type Handle struct {
	model *forest.Forest
	info  ModelInfo
}

// Model returns the classifier.
func (h *Handle) Model() recommend.Model {
	return h.model
}

// Info returns a copy of the model description.
func (h *Handle) Info() ModelInfo {
	info := h.info
	info.Labels = append([]string(nil), h.info.Labels...)
	return info
}

// Manager runs the load-or-train sequence.
type Manager struct {
	store  ArtifactStore
	cfg    Config
	logger zerolog.Logger

	mu     sync.Mutex
	handle *Handle
}

// NewManager creates a Manager.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewManager(store ArtifactStore, cfg Config, logger zerolog.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("artifact store is required")
	}
	if cfg.SamplesPerCrop <= 0 {
		cfg.SamplesPerCrop = synth.DefaultSamplesPerCrop
	}
	if cfg.Profiles == nil {
		cfg.Profiles = profiles.All()
	}
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "model_lifecycle").Logger(),
	}, nil
}

// Handle returns the model prepared by Start, or nil before Start succeeds.
func (m *Manager) Handle() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

// Start loads the artifact or trains a replacement. Repeated calls return
// the same handle.
func (m *Manager) Start(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return m.handle, nil
	}

	res := m.store.Load(ctx)
	metrics.RecordArtifactLoad(string(res.Status))

	switch res.Status {
	case storage.StatusLoaded:
		f, err := forest.FromState(res.State)
		if err == nil {
			m.handle = m.artifactHandle(f, res)
			metrics.SetModelInfo(string(SourceArtifact), m.handle.info.HoldoutAccuracy, len(m.handle.info.Labels))
			return m.handle, nil
		}
		res = storage.LoadResult{Status: storage.StatusCorrupt, Err: err}
		m.logger.Warn().Err(err).Str("path", m.store.Path()).Msg("artifact state rejected, retraining")
	case storage.StatusCorrupt:
		m.logger.Warn().Err(res.Err).Str("path", m.store.Path()).Msg("model artifact corrupt, retraining")
	case storage.StatusAbsent:
		m.logger.Info().Str("path", m.store.Path()).Msg("no model artifact found, training")
	default:
		return nil, fmt.Errorf("unexpected load status %q", res.Status)
	}

	h, err := m.train(ctx, res)
	if err != nil {
		return nil, err
	}
	m.handle = h
	metrics.SetModelInfo(string(SourceTrained), h.info.HoldoutAccuracy, len(h.info.Labels))
	return h, nil
}

//nolint:gocritic // LoadResult passed by value, read-only
func (m *Manager) artifactHandle(f *forest.Forest, res storage.LoadResult) *Handle {
	report := f.Report()
	info := ModelInfo{
		Source:          SourceArtifact,
		TrainedAt:       res.Metadata.TrainedAt,
		LoadedAt:        time.Now().UTC(),
		HoldoutAccuracy: res.Metadata.HoldoutAccuracy,
		TrainSize:       report.TrainSize,
		HoldoutSize:     report.HoldoutSize,
		Labels:          f.Labels(),
		Estimators:      f.NumTrees(),
		ArtifactPath:    m.store.Path(),
		LoadStatus:      storage.StatusLoaded,
		Persisted:       true,
	}

	m.logger.Info().
		Str("path", info.ArtifactPath).
		Time("trained_at", info.TrainedAt).
		Int("labels", len(info.Labels)).
		Int("trees", info.Estimators).
		Float64("holdout_accuracy", info.HoldoutAccuracy).
		Msg("model loaded from artifact")

	return &Handle{model: f, info: info}
}

//nolint:gocritic // LoadResult passed by value, read-only
func (m *Manager) train(ctx context.Context, res storage.LoadResult) (*Handle, error) {
	seed := m.cfg.Forest.Seed
	if seed == 0 {
		seed = synth.DefaultSeed
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for synthetic data
	samples := synth.Generate(m.cfg.Profiles, m.cfg.SamplesPerCrop, rng)

	f, report, err := forest.Train(ctx, samples, m.cfg.Forest)
	if err != nil {
		metrics.RecordModelTraining(0, 0, false)
		return nil, fmt.Errorf("train crop model: %w", err)
	}
	metrics.RecordModelTraining(report.Duration, report.HoldoutAccuracy, true)

	m.logger.Info().
		Int("samples", report.Samples).
		Int("train_size", report.TrainSize).
		Int("holdout_size", report.HoldoutSize).
		Int("labels", report.Labels).
		Float64("holdout_accuracy", report.HoldoutAccuracy).
		Dur("duration", report.Duration).
		Msg("crop model trained")

	info := ModelInfo{
		Source:          SourceTrained,
		TrainedAt:       report.TrainedAt,
		LoadedAt:        time.Now().UTC(),
		HoldoutAccuracy: report.HoldoutAccuracy,
		TrainSize:       report.TrainSize,
		HoldoutSize:     report.HoldoutSize,
		Labels:          f.Labels(),
		Estimators:      f.NumTrees(),
		ArtifactPath:    m.store.Path(),
		LoadStatus:      res.Status,
	}
	if res.Err != nil {
		info.CorruptReason = res.Err.Error()
	}

	if _, err := m.store.Save(ctx, f.State(), storage.MetadataFromReport(report)); err != nil {
		metrics.RecordArtifactSave(false)
		m.logger.Error().Err(err).Str("path", m.store.Path()).Msg("failed to persist model, serving in-memory model")
	} else {
		metrics.RecordArtifactSave(true)
		info.Persisted = true
		m.logger.Info().Str("path", m.store.Path()).Msg("model artifact saved")
	}

	return &Handle{model: f, info: info}, nil
}
