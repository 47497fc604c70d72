// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/cropadvisor/internal/logging"
)

// maxAlternatives is the most ranked crops a recommendation may return.
const maxAlternatives = 3

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateHistory()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, disabled, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateModel() error {
	m := c.Model
	if m.Path == "" {
		return errors.New("MODEL_PATH is required")
	}
	if m.Estimators < 1 {
		return fmt.Errorf("MODEL_ESTIMATORS must be at least 1, got %d", m.Estimators)
	}
	if m.SamplesPerCrop < 2 {
		return fmt.Errorf("MODEL_SAMPLES_PER_CROP must be at least 2, got %d", m.SamplesPerCrop)
	}
	if math.IsNaN(m.HoldoutFraction) || m.HoldoutFraction <= 0 || m.HoldoutFraction >= 1 {
		return fmt.Errorf("MODEL_HOLDOUT_FRACTION must be in (0, 1), got %v", m.HoldoutFraction)
	}
	if m.MaxDepth < 0 {
		return fmt.Errorf("MODEL_MAX_DEPTH must not be negative, got %d", m.MaxDepth)
	}
	if m.MinSamplesSplit < 2 {
		return fmt.Errorf("MODEL_MIN_SAMPLES_SPLIT must be at least 2, got %d", m.MinSamplesSplit)
	}
	if m.Workers < 0 {
		return fmt.Errorf("MODEL_WORKERS must not be negative, got %d", m.Workers)
	}
	if m.Alternatives < 1 || m.Alternatives > maxAlternatives {
		return fmt.Errorf("MODEL_ALTERNATIVES must be between 1 and %d, got %d", maxAlternatives, m.Alternatives)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	if c.History.QueueSize < 1 {
		return fmt.Errorf("HISTORY_QUEUE_SIZE must be at least 1, got %d", c.History.QueueSize)
	}
	return nil
}
