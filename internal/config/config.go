// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package config

import (
	"fmt"
	"time"
)

// Config holds all service configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in defaults for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Model    ModelConfig    `koanf:"model"`
	Security SecurityConfig `koanf:"security"`
	History  HistoryConfig  `koanf:"history"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`

	// Timeout bounds request reads and writes.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies.
	// Default: 64KiB
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	Environment string `koanf:"environment"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ModelConfig controls the crop model artifact and training.
type ModelConfig struct {
	// Path is the model artifact file.
	// Default: /data/models/crop_forest.gob.gz
	Path string `koanf:"path"`

	// Seed drives synthetic data, the holdout split and bootstrap sampling.
	// Default: 42
	Seed int64 `koanf:"seed"`

	// Estimators is the number of trees.
	// Default: 20
	Estimators int `koanf:"estimators"`

	// SamplesPerCrop is the synthetic sample count per crop profile.
	// Default: 100
	SamplesPerCrop int `koanf:"samples_per_crop"`

	// HoldoutFraction is the share of samples held out for accuracy.
	// Default: 0.2
	HoldoutFraction float64 `koanf:"holdout_fraction"`

	// MaxDepth limits tree depth. 0 means unlimited.
	MaxDepth int `koanf:"max_depth"`

	// MinSamplesSplit is the smallest node that may be split.
	// Default: 2
	MinSamplesSplit int `koanf:"min_samples_split"`

	// Workers is the number of trees fitted concurrently. 0 uses GOMAXPROCS.
	Workers int `koanf:"workers"`

	// Alternatives is the number of ranked crops returned.
	// Default: 3
	Alternatives int `koanf:"alternatives"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// HistoryConfig controls advisory history recording.
type HistoryConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the DuckDB database file. Empty or ":memory:" keeps history
	// in memory.
	// Default: /data/cropadvisor.duckdb
	Path string `koanf:"path"`

	// QueueSize is the number of pending writes buffered before records
	// are dropped.
	// Default: 256
	QueueSize int `koanf:"queue_size"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}
