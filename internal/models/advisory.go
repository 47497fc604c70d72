// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package models

import (
	"time"

	"github.com/tomtom215/cropadvisor/internal/history"
	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// Advisory types as reported in responses.
const (
	AdvisoryTypeCrop       = string(history.TypeCrop)
	AdvisoryTypeFertilizer = string(history.TypeFertilizer)
)

// CropAdvisory is the data of a crop recommendation response.
type CropAdvisory struct {
	Type          string                       `json:"type"`
	Primary       string                       `json:"primary"`
	Alternatives  []string                     `json:"alternatives"`
	Probabilities []recommend.ClassProbability `json:"probabilities"`
	Advice        string                       `json:"advice"`
	Input         recommend.Measurements       `json:"input"`
	Model         ModelSummary                 `json:"model"`
}

// FertilizerAdvisory is the data of a fertilizer recommendation response.
type FertilizerAdvisory struct {
	Type            string   `json:"type"`
	Recommendations []string `json:"recommendations"`
	Advice          string   `json:"advice"`
}

// ModelSummary identifies the model that produced a crop recommendation.
type ModelSummary struct {
	Source          string    `json:"source"`
	TrainedAt       time.Time `json:"trained_at"`
	HoldoutAccuracy float64   `json:"holdout_accuracy"`
	Estimators      int       `json:"estimators"`
}

// AdvisoryHistory is the data of a history listing.
type AdvisoryHistory struct {
	FarmerUID string           `json:"farmer_uid"`
	Records   []history.Record `json:"records"`
	Count     int              `json:"count"`
	Limit     int              `json:"limit"`
}

// HealthStatus is the data of the health endpoints.
type HealthStatus struct {
	Status       string    `json:"status"`
	ModelReady   bool      `json:"model_ready"`
	History      string    `json:"history,omitempty"`
	HistoryQueue int       `json:"history_queue,omitempty"`
	Uptime       string    `json:"uptime"`
	Timestamp    time.Time `json:"timestamp"`
}
