// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package client

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropadvisor/internal/models"
)

// CropRequest is the body of a crop recommendation. Nil Temperature and
// Humidity let the server apply its defaults.
type CropRequest struct {
	Nitrogen    float64  `json:"nitrogen"`
	Phosphorus  float64  `json:"phosphorus"`
	Potassium   float64  `json:"potassium"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	PH          float64  `json:"ph_level"`
	Rainfall    float64  `json:"rainfall"`

	FarmerUID    string `json:"farmer_uid,omitempty"`
	LandParcelID *int64 `json:"land_parcel_id,omitempty"`
}

// FertilizerRequest is the body of a fertilizer recommendation.
type FertilizerRequest struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`

	FarmerUID    string `json:"farmer_uid,omitempty"`
	LandParcelID *int64 `json:"land_parcel_id,omitempty"`
}

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cropadvisor: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Temporary reports whether retrying later might succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// envelope is models.APIResponse with the data left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}
