// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropadvisor/internal/logging"
	"github.com/tomtom215/cropadvisor/internal/middleware"
	"github.com/tomtom215/cropadvisor/internal/models"
	"github.com/tomtom215/cropadvisor/internal/validation"
)

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data any, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   middleware.GetRequestID(r.Context()),
		},
	})
}

// respondError sends an error response. A non-nil err is logged, never
// returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator. Each
// failure is logged at debug level with its tag and parameter.
func validateRequest(ctx context.Context, v any) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	for _, fe := range verr.Errors() {
		logging.Ctx(ctx).Debug().
			Str("field", fe.Field()).
			Str("tag", fe.Tag()).
			Str("param", fe.Param()).
			Msg("request validation failed")
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

func invalidRequest(message string) *models.APIError {
	return &models.APIError{Code: CodeInvalidRequest, Message: message}
}

// decodeFields reads a JSON object body with numbers kept as json.Number so
// that measurement coercion sees the client's exact value.
func decodeFields(w http.ResponseWriter, r *http.Request, maxBytes int64) (map[string]any, *models.APIError) {
	if r.Body == nil {
		return nil, invalidRequest("Request body is required")
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, invalidRequest(fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return nil, invalidRequest("Request body is required")
		default:
			return nil, invalidRequest("Request body must be a JSON object")
		}
	}
	if fields == nil {
		return nil, invalidRequest("Request body must be a JSON object")
	}
	return fields, nil
}

// identityFields lists accepted spellings, snake_case first.
var (
	farmerUIDFields    = []string{"farmer_uid", "farmerUid"}
	landParcelIDFields = []string{"land_parcel_id", "landParcelId"}
)

// parseIdentity extracts the optional farmer and land parcel from a body.
func parseIdentity(ctx context.Context, fields map[string]any) (validation.AdvisoryIdentity, *models.APIError) {
	var id validation.AdvisoryIdentity

	if v, ok := firstPresent(fields, farmerUIDFields); ok {
		s, isString := v.(string)
		if !isString {
			return id, invalidRequest("farmer_uid must be a string")
		}
		id.FarmerUID = strings.TrimSpace(s)
	}

	if v, ok := firstPresent(fields, landParcelIDFields); ok {
		n, err := toInt64(v)
		if err != nil {
			return id, invalidRequest("land_parcel_id must be an integer")
		}
		id.LandParcelID = &n
	}

	if apiErr := validateRequest(ctx, &id); apiErr != nil {
		return id, apiErr
	}
	return id, nil
}

func firstPresent(fields map[string]any, names []string) (any, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

type int64er interface {
	Int64() (int64, error)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64er:
		return n.Int64()
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// getIntParam extracts an integer query parameter. A malformed value is
// reported rather than replaced by the default.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
