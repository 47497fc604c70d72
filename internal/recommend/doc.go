// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package recommend implements crop recommendation from soil and climate
// measurements.
//
// # Architecture
//
// The pipeline is split across subpackages so each stage can be tested in
// isolation:
//
//   - profiles: the fixed registry of agronomic crop profiles
//   - synth: synthetic sample generation from those profiles
//   - forest: a random forest classifier trained on the samples
//   - storage: the on-disk model artifact (gob + gzip + SHA-256)
//   - lifecycle: load-or-train at startup, producing a single model handle
//
// This package holds the shared vocabulary (feature layout, samples, the
// Model interface, error kinds) and the inference Engine.
//
// # Feature Layout
//
// Every feature vector uses the same fixed order:
//
//	[N, P, K, temperature, humidity, pH, rainfall]
//
// The order is part of the model contract. FeatureVector is a fixed-size
// array so a vector of the wrong length cannot be built.
//
// # Usage
//
//	handle, err := lifecycle.NewManager(store, lifecycle.DefaultConfig(), logger).Start(ctx)
//	if err != nil {
//	    return err // recommend.ErrInsufficientTrainingData is fatal
//	}
//	engine, err := recommend.NewEngine(handle.Model(), recommend.DefaultConfig(), logger)
//
//	rec, err := engine.Recommend(ctx, map[string]any{
//	    "nitrogen": 90, "phosphorus": 42, "potassium": 43,
//	    "ph_level": 6.5, "rainfall": 200,
//	})
//	// rec.Primary == "rice", rec.Alternatives[0] == rec.Primary
//
// # Thread Safety
//
// A trained Model is immutable. The Engine holds no mutable state besides
// atomic counters, so it is safe for concurrent use without locking.
package recommend
