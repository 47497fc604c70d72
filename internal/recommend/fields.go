// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Request field names.
const (
	FieldNitrogen    = "nitrogen"
	FieldPhosphorus  = "phosphorus"
	FieldPotassium   = "potassium"
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldPH          = "ph_level"
	FieldRainfall    = "rainfall"

	// fieldPHLegacy is the camelCase spelling older clients send.
	fieldPHLegacy = "phLevel"
)

// floater is satisfied by json.Number from both encoding/json and go-json.
type floater interface {
	Float64() (float64, error)
}

// lookup returns the first present, non-null value among names.
func lookup(fields map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toFloat coerces a decoded JSON value to a finite float64.
func toFloat(name string, v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case floater:
		parsed, err := n.Float64()
		if err != nil {
			return 0, invalidField(name, fmt.Sprintf("not a number: %v", v))
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, invalidField(name, fmt.Sprintf("not a number: %q", n))
		}
		f = parsed
	default:
		return 0, invalidField(name, fmt.Sprintf("unsupported type %T", v))
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidField(name, "must be finite")
	}
	return f, nil
}

// RequiredNumber reads a mandatory numeric field. Aliases are consulted in
// order after name. An absent or null field yields ErrMissingField.
func RequiredNumber(fields map[string]any, name string, aliases ...string) (float64, error) {
	v, ok := lookup(fields, append([]string{name}, aliases...)...)
	if !ok {
		return 0, missingField(name)
	}
	return toFloat(name, v)
}

// OptionalNumber reads a numeric field, returning def when it is absent or
// null. A present but non-numeric value is still ErrInvalidField.
func OptionalNumber(fields map[string]any, name string, def float64) (float64, error) {
	v, ok := lookup(fields, name)
	if !ok {
		return def, nil
	}
	return toFloat(name, v)
}

// ParseMeasurements extracts crop request fields. Nitrogen, phosphorus,
// potassium, ph_level and rainfall are mandatory and checked in that order;
// temperature and humidity fall back to the configured defaults.
func ParseMeasurements(fields map[string]any, cfg *Config) (Measurements, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var m Measurements
	var err error

	if m.Nitrogen, err = RequiredNumber(fields, FieldNitrogen); err != nil {
		return Measurements{}, err
	}
	if m.Phosphorus, err = RequiredNumber(fields, FieldPhosphorus); err != nil {
		return Measurements{}, err
	}
	if m.Potassium, err = RequiredNumber(fields, FieldPotassium); err != nil {
		return Measurements{}, err
	}
	if m.PH, err = RequiredNumber(fields, FieldPH, fieldPHLegacy); err != nil {
		return Measurements{}, err
	}
	if m.Rainfall, err = RequiredNumber(fields, FieldRainfall); err != nil {
		return Measurements{}, err
	}
	if m.Temperature, err = OptionalNumber(fields, FieldTemperature, cfg.DefaultTemperature); err != nil {
		return Measurements{}, err
	}
	if m.Humidity, err = OptionalNumber(fields, FieldHumidity, cfg.DefaultHumidity); err != nil {
		return Measurements{}, err
	}

	return m, nil
}
