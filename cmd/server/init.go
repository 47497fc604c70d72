// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/cropadvisor/internal/config"
	"github.com/tomtom215/cropadvisor/internal/history"
	"github.com/tomtom215/cropadvisor/internal/logging"
	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/forest"
	"github.com/tomtom215/cropadvisor/internal/recommend/lifecycle"
	"github.com/tomtom215/cropadvisor/internal/recommend/storage"
)

// forestConfig maps the model section onto trainer settings.
func forestConfig(m *config.ModelConfig) forest.Config {
	return forest.Config{
		Estimators:      m.Estimators,
		MaxDepth:        m.MaxDepth,
		MinSamplesSplit: m.MinSamplesSplit,
		HoldoutFraction: m.HoldoutFraction,
		Seed:            m.Seed,
		Workers:         m.Workers,
	}
}

// initModel loads or trains the crop model and builds the inference engine.
func initModel(ctx context.Context, cfg *config.Config) (*lifecycle.Handle, *recommend.Engine, error) {
	manager, err := lifecycle.NewManager(
		storage.NewStore(cfg.Model.Path),
		lifecycle.Config{
			Forest:         forestConfig(&cfg.Model),
			SamplesPerCrop: cfg.Model.SamplesPerCrop,
		},
		logging.WithComponent("model"),
	)
	if err != nil {
		return nil, nil, err
	}

	handle, err := manager.Start(ctx)
	if err != nil {
		return nil, nil, err
	}

	engineCfg := recommend.DefaultConfig()
	engineCfg.Alternatives = cfg.Model.Alternatives
	engine, err := recommend.NewEngine(handle.Model(), engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		return nil, nil, fmt.Errorf("create inference engine: %w", err)
	}

	info := handle.Info()
	logging.Info().
		Str("source", string(info.Source)).
		Int("labels", len(info.Labels)).
		Float64("holdout_accuracy", info.HoldoutAccuracy).
		Msg("Crop model ready")
	return handle, engine, nil
}

// historyComponents holds the optional history store and its recorder.
type historyComponents struct {
	store    *history.Store
	recorder *history.Recorder
}

func (h *historyComponents) enabled() bool {
	return h.store != nil
}

func (h *historyComponents) close() {
	if h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing history database")
	}
}

// initHistory opens the history database. Failure disables history rather
// than stopping the server.
func initHistory(ctx context.Context, cfg *config.Config) *historyComponents {
	if !cfg.History.Enabled {
		logging.Info().Msg("Advisory history disabled (HISTORY_ENABLED=false)")
		return &historyComponents{}
	}

	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logging.Error().Err(err).Str("path", cfg.History.Path).Msg("Failed to open history database, history disabled")
		return &historyComponents{}
	}

	logging.Info().Str("path", cfg.History.Path).Msg("Advisory history enabled")
	return &historyComponents{
		store:    store,
		recorder: history.NewRecorder(store, cfg.History.QueueSize, logging.WithComponent("history")),
	}
}
