// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrInsufficientTrainingData is returned when training is given no
	// samples or fewer than two distinct labels. It is fatal at startup.
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrArtifactCorrupt marks a persisted model that could not be used.
	// The lifecycle manager recovers by retraining.
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrMissingField is returned when a mandatory request field is absent.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidField is returned when a request field is present but not
	// a finite number.
	ErrInvalidField = errors.New("invalid field")

	// ErrRecommendationFailed covers any other inference failure.
	ErrRecommendationFailed = errors.New("recommendation failed")
)

// FieldError describes a per-request problem with a single field.
type FieldError struct {
	// Field is the canonical field name (see FeatureOrder).
	Field string

	// Kind is ErrMissingField or ErrInvalidField.
	Kind error

	// Reason is set for invalid fields.
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Field, e.Reason)
}

// Unwrap lets errors.Is match the error kind.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

func missingField(name string) error {
	return &FieldError{Field: name, Kind: ErrMissingField}
}

func invalidField(name, reason string) error {
	return &FieldError{Field: name, Kind: ErrInvalidField, Reason: reason}
}

// ErrorKind is the machine-readable category of an error.
type ErrorKind string

// Error kinds, one per sentinel plus a catch-all.
const (
	KindInsufficientTrainingData ErrorKind = "InsufficientTrainingData"
	KindArtifactCorrupt          ErrorKind = "ArtifactCorrupt"
	KindMissingField             ErrorKind = "MissingField"
	KindInvalidField             ErrorKind = "InvalidField"
	KindInternal                 ErrorKind = "Internal"
)

// KindOf classifies err. Unknown errors map to KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrInvalidField):
		return KindInvalidField
	case errors.Is(err, ErrInsufficientTrainingData):
		return KindInsufficientTrainingData
	case errors.Is(err, ErrArtifactCorrupt):
		return KindArtifactCorrupt
	default:
		return KindInternal
	}
}

// StructuredError is the wire form of an error.
type StructuredError struct {
	Kind    ErrorKind `json:"errorKind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Describe converts err into its structured form.
func Describe(err error) StructuredError {
	se := StructuredError{Kind: KindOf(err), Message: err.Error()}
	var fe *FieldError
	if errors.As(err, &fe) {
		se.Field = fe.Field
	}
	return se
}
