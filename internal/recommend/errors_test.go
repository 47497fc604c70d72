// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{missingField("nitrogen"), KindMissingField},
		{invalidField("rainfall", "not a number"), KindInvalidField},
		{fmt.Errorf("train: %w", ErrInsufficientTrainingData), KindInsufficientTrainingData},
		{fmt.Errorf("load: %w", ErrArtifactCorrupt), KindArtifactCorrupt},
		{ErrRecommendationFailed, KindInternal},
		{errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	se := Describe(invalidField("potassium", "must be finite"))

	if se.Kind != KindInvalidField {
		t.Errorf("Kind = %q, want %q", se.Kind, KindInvalidField)
	}
	if se.Field != "potassium" {
		t.Errorf("Field = %q, want potassium", se.Field)
	}
	if se.Message != "invalid field potassium: must be finite" {
		t.Errorf("Message = %q", se.Message)
	}

	plain := Describe(errors.New("disk full"))
	if plain.Field != "" || plain.Kind != KindInternal {
		t.Errorf("Describe(plain) = %+v", plain)
	}
}
