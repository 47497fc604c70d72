// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package fertilizer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/cropadvisor/internal/recommend"
)

func TestAdvise(t *testing.T) {
	tests := []struct {
		name    string
		n, p, k float64
		want    []string
	}{
		{"all deficient", 30, 10, 10, []string{Urea, SuperPhosphate, DAP, MuriateOfPotash}},
		{"balanced", 100, 50, 50, []string{Balanced}},
		{"nitrogen excess", 150, 50, 50, []string{AvoidNitrogen}},
		{"potassium only", 100, 50, 10, []string{MuriateOfPotash}},
		{"phosphorus only", 100, 5, 50, []string{SuperPhosphate, DAP}},
		{"low n boundary is balanced", 50, 20, 20, []string{Balanced}},
		{"high n boundary is balanced", 140, 20, 20, []string{Balanced}},
		{"just below low n", 49.999, 20, 20, []string{Urea}},
		{"just above high n", 140.001, 20, 20, []string{AvoidNitrogen}},
		{"negative values", -1, -1, -1, []string{Urea, SuperPhosphate, DAP, MuriateOfPotash}},
		{"excess n with low k", 200, 30, 0, []string{AvoidNitrogen, MuriateOfPotash}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advise(tt.n, tt.p, tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Advise(%v, %v, %v) = %v, want %v", tt.n, tt.p, tt.k, got, tt.want)
			}
		})
	}
}

func TestAdviseFields(t *testing.T) {
	got, err := AdviseFields(map[string]any{
		"nitrogen":   "30",
		"phosphorus": 10.0,
		"potassium":  int64(10),
	})
	if err != nil {
		t.Fatalf("AdviseFields() error = %v", err)
	}
	want := []string{Urea, SuperPhosphate, DAP, MuriateOfPotash}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AdviseFields() = %v, want %v", got, want)
	}
}

func TestAdviseFields_Errors(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]any
		wantKind  error
		wantField string
	}{
		{
			name:      "missing potassium",
			fields:    map[string]any{"nitrogen": 30.0, "phosphorus": 10.0},
			wantKind:  recommend.ErrMissingField,
			wantField: recommend.FieldPotassium,
		},
		{
			name:      "missing everything reports nitrogen",
			fields:    map[string]any{},
			wantKind:  recommend.ErrMissingField,
			wantField: recommend.FieldNitrogen,
		},
		{
			name:      "non-numeric phosphorus",
			fields:    map[string]any{"nitrogen": 30.0, "phosphorus": "lots", "potassium": 10.0},
			wantKind:  recommend.ErrInvalidField,
			wantField: recommend.FieldPhosphorus,
		},
		{
			name:      "null nitrogen",
			fields:    map[string]any{"nitrogen": nil, "phosphorus": 10.0, "potassium": 10.0},
			wantKind:  recommend.ErrMissingField,
			wantField: recommend.FieldNitrogen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AdviseFields(tt.fields)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("AdviseFields() error = %v, want %v", err, tt.wantKind)
			}
			var fe *recommend.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FieldError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}
