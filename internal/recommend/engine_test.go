// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// stubModel returns fixed probabilities and records the last vector seen.
type stubModel struct {
	labels  []string
	probs   []float64
	primary string

	mu   sync.Mutex
	last FeatureVector
}

func (m *stubModel) Classify(v FeatureVector) string {
	m.mu.Lock()
	m.last = v
	m.mu.Unlock()
	return m.primary
}

func (m *stubModel) Probabilities(v FeatureVector) []ClassProbability {
	out := make([]ClassProbability, len(m.labels))
	for i, l := range m.labels {
		out[i] = ClassProbability{Label: l, Probability: m.probs[i]}
	}
	return out
}

func (m *stubModel) Labels() []string { return m.labels }

func (m *stubModel) lastVector() FeatureVector {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func newStubModel() *stubModel {
	return &stubModel{
		labels:  []string{"rice", "maize", "jute", "coffee", "cotton"},
		probs:   []float64{0.50, 0.05, 0.30, 0.10, 0.05},
		primary: "rice",
	}
}

func validFields() map[string]any {
	return map[string]any{
		"nitrogen":   90.0,
		"phosphorus": 42.0,
		"potassium":  43.0,
		"ph_level":   6.5,
		"rainfall":   200.0,
	}
}

func newTestEngine(t *testing.T, model Model) *Engine {
	t.Helper()
	e, err := NewEngine(model, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil model", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for nil model")
		}
	})

	for _, n := range []int{0, MaxAlternatives + 1, 10} {
		t.Run(fmt.Sprintf("alternatives=%d", n), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Alternatives = n
			if _, err := NewEngine(newStubModel(), cfg, zerolog.Nop()); err == nil {
				t.Errorf("NewEngine() accepted %d alternatives", n)
			}
		})
	}
}

func TestEngine_Recommend(t *testing.T) {
	model := newStubModel()
	e := newTestEngine(t, model)

	rec, err := e.Recommend(context.Background(), validFields())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if rec.Primary != "rice" {
		t.Errorf("Primary = %q, want rice", rec.Primary)
	}

	want := []string{"rice", "jute", "coffee"}
	if len(rec.Alternatives) != len(want) {
		t.Fatalf("Alternatives = %v, want %v", rec.Alternatives, want)
	}
	for i := range want {
		if rec.Alternatives[i] != want[i] {
			t.Errorf("Alternatives[%d] = %q, want %q", i, rec.Alternatives[i], want[i])
		}
	}

	for i := 1; i < len(rec.Ranked); i++ {
		if rec.Ranked[i].Probability > rec.Ranked[i-1].Probability {
			t.Errorf("Ranked not descending at %d: %v", i, rec.Ranked)
		}
	}
}

func TestEngine_Recommend_AppliesDefaults(t *testing.T) {
	model := newStubModel()
	e := newTestEngine(t, model)

	if _, err := e.Recommend(context.Background(), validFields()); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := FeatureVector{90, 42, 43, DefaultTemperature, DefaultHumidity, 6.5, 200}
	if got := model.lastVector(); got != want {
		t.Errorf("vector = %v, want %v", got, want)
	}
}

func TestEngine_Recommend_FeatureOrder(t *testing.T) {
	model := newStubModel()
	e := newTestEngine(t, model)

	fields := validFields()
	fields["temperature"] = 31.0
	fields["humidity"] = 82.0

	if _, err := e.Recommend(context.Background(), fields); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	got := model.lastVector()
	checks := map[int]float64{
		FeatureNitrogen:    90,
		FeaturePhosphorus:  42,
		FeaturePotassium:   43,
		FeatureTemperature: 31,
		FeatureHumidity:    82,
		FeaturePH:          6.5,
		FeatureRainfall:    200,
	}
	for idx, want := range checks {
		if got[idx] != want {
			t.Errorf("vector[%d] (%s) = %v, want %v", idx, FeatureOrder[idx], got[idx], want)
		}
	}
}

func TestEngine_Recommend_FieldErrors(t *testing.T) {
	e := newTestEngine(t, newStubModel())

	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   error
		field  string
	}{
		{
			name:   "missing nitrogen",
			mutate: func(f map[string]any) { delete(f, "nitrogen") },
			want:   ErrMissingField,
			field:  FieldNitrogen,
		},
		{
			name:   "missing rainfall",
			mutate: func(f map[string]any) { delete(f, "rainfall") },
			want:   ErrMissingField,
			field:  FieldRainfall,
		},
		{
			name:   "null ph",
			mutate: func(f map[string]any) { f["ph_level"] = nil },
			want:   ErrMissingField,
			field:  FieldPH,
		},
		{
			name:   "non-numeric potassium",
			mutate: func(f map[string]any) { f["potassium"] = "lots" },
			want:   ErrInvalidField,
			field:  FieldPotassium,
		},
		{
			name:   "non-numeric temperature",
			mutate: func(f map[string]any) { f["temperature"] = true },
			want:   ErrInvalidField,
			field:  FieldTemperature,
		},
		{
			name:   "NaN humidity",
			mutate: func(f map[string]any) { f["humidity"] = math.NaN() },
			want:   ErrInvalidField,
			field:  FieldHumidity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(fields)

			_, err := e.Recommend(context.Background(), fields)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Recommend() error = %v, want %v", err, tt.want)
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestEngine_Rank_StableTies(t *testing.T) {
	model := &stubModel{
		labels:  []string{"apple", "banana", "coffee", "grapes"},
		probs:   []float64{0.25, 0.25, 0.25, 0.25},
		primary: "apple",
	}
	e := newTestEngine(t, model)

	rec, err := e.Recommend(context.Background(), validFields())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"apple", "banana", "coffee"}
	for i := range want {
		if rec.Alternatives[i] != want[i] {
			t.Errorf("Alternatives[%d] = %q, want %q", i, rec.Alternatives[i], want[i])
		}
	}
}

func TestEngine_Recommend_FewerLabelsThanAlternatives(t *testing.T) {
	model := &stubModel{
		labels:  []string{"rice", "maize"},
		probs:   []float64{0.4, 0.6},
		primary: "maize",
	}
	e := newTestEngine(t, model)

	rec, err := e.Recommend(context.Background(), validFields())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(rec.Alternatives) != 2 {
		t.Errorf("len(Alternatives) = %d, want 2", len(rec.Alternatives))
	}
	if rec.Alternatives[0] != "maize" {
		t.Errorf("Alternatives[0] = %q, want maize", rec.Alternatives[0])
	}
}

func TestEngine_Recommend_EmptyModelOutput(t *testing.T) {
	model := &stubModel{primary: ""}
	e := newTestEngine(t, model)

	_, err := e.Recommend(context.Background(), validFields())
	if !errors.Is(err, ErrRecommendationFailed) {
		t.Errorf("Recommend() error = %v, want ErrRecommendationFailed", err)
	}
	if KindOf(err) != KindInternal {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), KindInternal)
	}
}

func TestEngine_Recommend_CanceledContext(t *testing.T) {
	e := newTestEngine(t, newStubModel())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, validFields()); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestEngine_ConcurrentRecommend(t *testing.T) {
	e := newTestEngine(t, newStubModel())

	var wg sync.WaitGroup
	var mu sync.Mutex
	primaries := make(map[string]int)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := e.Recommend(context.Background(), validFields())
			if err != nil {
				t.Errorf("Recommend() error = %v", err)
				return
			}
			mu.Lock()
			primaries[rec.Primary]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(primaries) != 1 {
		t.Errorf("concurrent calls disagreed on the primary crop: %v", primaries)
	}
}
