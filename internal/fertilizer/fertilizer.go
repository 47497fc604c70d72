// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package fertilizer recommends fertilizers from soil NPK levels using a
// fixed rule table. It has no model and no state.
package fertilizer

import (
	"github.com/tomtom215/cropadvisor/internal/recommend"
)

// Recommendations produced by Advise.
const (
	Urea            = "Urea (High N)"
	AvoidNitrogen   = "Avoid Nitrogen fertilizers"
	SuperPhosphate  = "Super Phosphate (High P)"
	DAP             = "DAP (Di-ammonium Phosphate)"
	MuriateOfPotash = "Muriate of Potash (High K)"
	Balanced        = "NPK 19:19:19 (Balanced)"
)

// Thresholds in the same units as the request fields.
const (
	LowNitrogen   = 50.0
	HighNitrogen  = 140.0
	LowPhosphorus = 20.0
	LowPotassium  = 20.0
)

// AdviceMessage accompanies every fertilizer recommendation.
const AdviceMessage = "Based on NPK soil analysis"

// Advise returns fertilizer recommendations for the given levels. The
// result is never empty: Balanced is returned when no deficiency or excess
// rule fires.
func Advise(n, p, k float64) []string {
	var recs []string

	switch {
	case n < LowNitrogen:
		recs = append(recs, Urea)
	case n > HighNitrogen:
		recs = append(recs, AvoidNitrogen)
	}

	if p < LowPhosphorus {
		recs = append(recs, SuperPhosphate, DAP)
	}

	if k < LowPotassium {
		recs = append(recs, MuriateOfPotash)
	}

	if len(recs) == 0 {
		recs = append(recs, Balanced)
	}
	return recs
}

// AdviseFields parses nitrogen, phosphorus and potassium from a decoded
// request body and calls Advise. Numeric strings are accepted. Missing or
// non-numeric values return a *recommend.FieldError.
func AdviseFields(fields map[string]any) ([]string, error) {
	n, err := recommend.RequiredNumber(fields, recommend.FieldNitrogen)
	if err != nil {
		return nil, err
	}
	p, err := recommend.RequiredNumber(fields, recommend.FieldPhosphorus)
	if err != nil {
		return nil, err
	}
	k, err := recommend.RequiredNumber(fields, recommend.FieldPotassium)
	if err != nil {
		return nil, err
	}
	return Advise(n, p, k), nil
}
