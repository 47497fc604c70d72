// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"errors"
	"fmt"
	"math"
)

// Defaults applied when a request omits the generic climate fields.
// Temperature and humidity are not profiled per crop, so any value inside
// the generator's ranges is neutral.
const (
	DefaultTemperature  = 25.0
	DefaultHumidity     = 60.0
	DefaultAlternatives = 3

	// MaxAlternatives caps the ranked crops in a recommendation.
	MaxAlternatives = 3
)

// Config contains inference settings.
type Config struct {
	// Alternatives is the number of ranked labels returned.
	Alternatives int `json:"alternatives"`

	// DefaultTemperature is used when the request has no temperature.
	DefaultTemperature float64 `json:"default_temperature"`

	// DefaultHumidity is used when the request has no humidity.
	DefaultHumidity float64 `json:"default_humidity"`
}

// DefaultConfig returns the inference defaults.
func DefaultConfig() *Config {
	return &Config{
		Alternatives:       DefaultAlternatives,
		DefaultTemperature: DefaultTemperature,
		DefaultHumidity:    DefaultHumidity,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Alternatives < 1 || c.Alternatives > MaxAlternatives {
		return fmt.Errorf("alternatives must be between 1 and %d, got %d", MaxAlternatives, c.Alternatives)
	}
	if math.IsNaN(c.DefaultTemperature) || math.IsInf(c.DefaultTemperature, 0) {
		return errors.New("default_temperature must be finite")
	}
	if math.IsNaN(c.DefaultHumidity) || math.IsInf(c.DefaultHumidity, 0) {
		return errors.New("default_humidity must be finite")
	}
	return nil
}
