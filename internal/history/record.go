// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package history records the advice given to each farmer.
//
// Records live in a DuckDB table, advisory_records. Writes from the request
// path go through a Recorder, which queues them and saves them in the
// background so a slow or failing database never delays or fails a
// recommendation.
package history

import (
	"time"

	"github.com/goccy/go-json"
)

// Type identifies the kind of advice stored in a record.
type Type string

// Record types.
const (
	TypeCrop       Type = "CROP"
	TypeFertilizer Type = "FERTILIZER"
)

// Valid reports whether t is a known record type.
func (t Type) Valid() bool {
	return t == TypeCrop || t == TypeFertilizer
}

// Summary is the advice payload stored with each record.
type Summary struct {
	Type            Type     `json:"type"`
	Recommendations []string `json:"recommendations"`
	Advice          string   `json:"advice"`
}

// Record is one advisory result given to a farmer.
type Record struct {
	ID           string          `json:"id"`
	FarmerUID    string          `json:"farmer_uid"`
	LandParcelID *int64          `json:"land_parcel_id,omitempty"`
	Type         Type            `json:"recommendation_type"`
	Data         json.RawMessage `json:"recommendation_data"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewRecord builds a record from a summary. ID and CreatedAt are assigned
// on save when empty.
func NewRecord(farmerUID string, landParcelID *int64, summary Summary) (Record, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return Record{}, err
	}
	return Record{
		FarmerUID:    farmerUID,
		LandParcelID: landParcelID,
		Type:         summary.Type,
		Data:         data,
	}, nil
}

// Summary decodes the stored payload.
func (r *Record) Summary() (Summary, error) {
	var s Summary
	err := json.Unmarshal(r.Data, &s)
	return s, err
}
