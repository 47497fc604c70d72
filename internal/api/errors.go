// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/validation"
)

// API error codes.
const (
	CodeMissingField        = "MISSING_FIELD"
	CodeInvalidField        = "INVALID_FIELD"
	CodeInvalidRequest      = validation.ErrorCode
	CodeRecommendationError = "RECOMMENDATION_ERROR"
	CodeHistoryError        = "HISTORY_ERROR"
	CodeUnavailable         = "SERVICE_UNAVAILABLE"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// Metric outcome labels for recommendation counters.
const (
	outcomeSuccess      = "success"
	outcomeMissingField = "missing_field"
	outcomeInvalidField = "invalid_field"
	outcomeInvalidBody  = "invalid_request"
	outcomeError        = "error"
)

// recommendFailure is the HTTP form of a recommendation error.
type recommendFailure struct {
	status  int
	code    string
	outcome string
	message string
	details map[string]any
}

// classifyRecommendError maps an engine or rule error to its HTTP status,
// API code and metric outcome. Field errors are the caller's fault and
// return 400; everything else is 500.
func classifyRecommendError(err error) recommendFailure {
	se := recommend.Describe(err)

	switch se.Kind {
	case recommend.KindMissingField:
		f := recommendFailure{
			status:  http.StatusBadRequest,
			code:    CodeMissingField,
			outcome: outcomeMissingField,
			message: se.Message,
		}
		if se.Field != "" {
			f.details = map[string]any{"field": se.Field}
		}
		return f
	case recommend.KindInvalidField:
		f := recommendFailure{
			status:  http.StatusBadRequest,
			code:    CodeInvalidField,
			outcome: outcomeInvalidField,
			message: se.Message,
		}
		var fe *recommend.FieldError
		if errors.As(err, &fe) {
			f.details = map[string]any{"field": se.Field, "reason": fe.Reason}
		}
		return f
	default:
		return recommendFailure{
			status:  http.StatusInternalServerError,
			code:    CodeRecommendationError,
			outcome: outcomeError,
			message: "Failed to generate recommendation",
		}
	}
}
