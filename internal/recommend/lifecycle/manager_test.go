// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/forest"
	"github.com/tomtom215/cropadvisor/internal/recommend/profiles"
	"github.com/tomtom215/cropadvisor/internal/recommend/storage"
)

func smallConfig() Config {
	return Config{
		Forest:         forest.Config{Estimators: 3},
		SamplesPerCrop: 20,
		Profiles:       profiles.All()[:4],
	}
}

func TestManager_TrainThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop_forest.gob.gz")
	ctx := context.Background()

	m, err := NewManager(storage.NewStore(path), smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	first, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	info := first.Info()
	if info.Source != SourceTrained {
		t.Errorf("Source = %s, want %s", info.Source, SourceTrained)
	}
	if info.LoadStatus != storage.StatusAbsent {
		t.Errorf("LoadStatus = %s, want %s", info.LoadStatus, storage.StatusAbsent)
	}
	if !info.Persisted {
		t.Error("Persisted = false, want true")
	}
	if len(info.Labels) != 4 {
		t.Errorf("len(Labels) = %d, want 4", len(info.Labels))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	again, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if again != first {
		t.Error("second Start() returned a different handle")
	}

	m2, err := NewManager(storage.NewStore(path), smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	second, err := m2.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := second.Info().Source; got != SourceArtifact {
		t.Errorf("Source = %s, want %s", got, SourceArtifact)
	}
	if !second.Info().TrainedAt.Equal(info.TrainedAt) {
		t.Errorf("TrainedAt = %v, want %v", second.Info().TrainedAt, info.TrainedAt)
	}

	var v recommend.FeatureVector
	v[recommend.FeatureNitrogen] = 80
	v[recommend.FeatureRainfall] = 200
	if a, b := first.Model().Classify(v), second.Model().Classify(v); a != b {
		t.Errorf("loaded model classifies %q, trained model %q", b, a)
	}
	if a, b := first.Model().Probabilities(v), second.Model().Probabilities(v); !reflect.DeepEqual(a, b) {
		t.Errorf("loaded model probabilities %v, trained model %v", b, a)
	}
}

func TestManager_HealsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop_forest.gob.gz")
	if err := os.WriteFile(path, []byte("corrupted"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := storage.NewStore(path)
	m, err := NewManager(store, smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	h, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	info := h.Info()
	if info.LoadStatus != storage.StatusCorrupt {
		t.Errorf("LoadStatus = %s, want %s", info.LoadStatus, storage.StatusCorrupt)
	}
	if info.CorruptReason == "" {
		t.Error("CorruptReason is empty")
	}
	if info.Source != SourceTrained {
		t.Errorf("Source = %s, want %s", info.Source, SourceTrained)
	}

	if res := store.Load(context.Background()); res.Status != storage.StatusLoaded {
		t.Errorf("artifact after healing: status = %s, err = %v", res.Status, res.Err)
	}
}

// failingStore reports no artifact and refuses to save.
type failingStore struct {
	saves int
}

func (s *failingStore) Load(context.Context) storage.LoadResult {
	return storage.LoadResult{Status: storage.StatusAbsent}
}

func (s *failingStore) Save(context.Context, *forest.State, storage.Metadata) (*storage.Metadata, error) {
	s.saves++
	return nil, errors.New("disk full")
}

func (s *failingStore) Path() string { return "/nonexistent/crop_forest.gob.gz" }

func TestManager_SaveFailureStillServes(t *testing.T) {
	store := &failingStore{}
	m, err := NewManager(store, smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	h, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if h.Info().Persisted {
		t.Error("Persisted = true, want false")
	}
	if h.Model() == nil {
		t.Fatal("Model() = nil")
	}
	if m.Handle() != h {
		t.Error("Handle() does not return the started handle")
	}
}

// invalidStateStore returns a loaded result whose state fails validation.
type invalidStateStore struct {
	failingStore
}

func (s *invalidStateStore) Load(context.Context) storage.LoadResult {
	return storage.LoadResult{
		Status:   storage.StatusLoaded,
		State:    &forest.State{Version: 99},
		Metadata: &storage.Metadata{},
	}
}

func TestManager_RejectsInvalidLoadedState(t *testing.T) {
	m, err := NewManager(&invalidStateStore{}, smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	h, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := h.Info().LoadStatus; got != storage.StatusCorrupt {
		t.Errorf("LoadStatus = %s, want %s", got, storage.StatusCorrupt)
	}
}

func TestManager_InsufficientData(t *testing.T) {
	cfg := smallConfig()
	cfg.Profiles = profiles.All()[:1]

	m, err := NewManager(&failingStore{}, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	_, err = m.Start(context.Background())
	if !errors.Is(err, recommend.ErrInsufficientTrainingData) {
		t.Errorf("Start() error = %v, want ErrInsufficientTrainingData", err)
	}
	if m.Handle() != nil {
		t.Error("Handle() should be nil after failed start")
	}
}

func TestNewManager_RequiresStore(t *testing.T) {
	if _, err := NewManager(nil, Config{}, zerolog.Nop()); err == nil {
		t.Error("NewManager(nil) error = nil, want error")
	}
}

func TestHandle_InfoIsCopy(t *testing.T) {
	m, err := NewManager(&failingStore{}, smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	h, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	info := h.Info()
	info.Labels[0] = "mutated"
	if h.Info().Labels[0] == "mutated" {
		t.Error("Info() exposes internal labels slice")
	}
}
