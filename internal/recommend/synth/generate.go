// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package synth generates labeled training samples from crop profiles.
package synth

import (
	"math/rand"

	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/profiles"
)

// DefaultSamplesPerCrop is used when Generate is given a non-positive count.
const DefaultSamplesPerCrop = 100

// DefaultSeed seeds the source when Generate is given a nil rng.
const DefaultSeed = 42

// Generate draws samplesPerCrop samples for each profile.
//
// Output is crop-major in profile order. Each profiled field is drawn
// uniformly within that crop's range and temperature and humidity from the
// generic ranges. Within a sample the draw order is N, P, K, pH, rainfall,
// temperature, humidity, so a fixed seed reproduces the same data set.
func Generate(crops []profiles.Profile, samplesPerCrop int, rng *rand.Rand) []recommend.Sample {
	if samplesPerCrop <= 0 {
		samplesPerCrop = DefaultSamplesPerCrop
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(DefaultSeed)) //nolint:gosec // math/rand is fine for synthetic data
	}

	samples := make([]recommend.Sample, 0, len(crops)*samplesPerCrop)
	for _, p := range crops {
		for i := 0; i < samplesPerCrop; i++ {
			var v recommend.FeatureVector
			v[recommend.FeatureNitrogen] = uniform(rng, p.Nitrogen)
			v[recommend.FeaturePhosphorus] = uniform(rng, p.Phosphorus)
			v[recommend.FeaturePotassium] = uniform(rng, p.Potassium)
			v[recommend.FeaturePH] = uniform(rng, p.PH)
			v[recommend.FeatureRainfall] = uniform(rng, p.Rainfall)
			v[recommend.FeatureTemperature] = uniform(rng, profiles.Temperature)
			v[recommend.FeatureHumidity] = uniform(rng, profiles.Humidity)

			samples = append(samples, recommend.Sample{Features: v, Label: p.Name})
		}
	}
	return samples
}

// uniform draws from [r.Min, r.Max).
func uniform(rng *rand.Rand, r profiles.Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
