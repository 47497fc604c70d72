// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package storage persists the trained crop model as a single artifact file.
//
// # Storage Format
//
// The artifact is a gob-encoded envelope holding metadata and the
// gzip-compressed, gob-encoded forest state:
//
//	path:      configured, e.g. /data/models/crop_forest.gob.gz
//	structure:
//	  - Metadata (Metadata, includes SHA-256 of the uncompressed state)
//	  - CompressedData (gzip(gob(forest.State)))
//
// Saves write a temporary file in the same directory and rename it over the
// artifact, so readers never observe a partial write.
//
// # Load Outcomes
//
// Load never returns an error for a bad file. It reports one of three
// statuses: the artifact loaded, no artifact exists, or the artifact is
// corrupt (undecodable, checksum mismatch, or structurally invalid state).
// Callers retrain on anything other than StatusLoaded.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/cropadvisor/internal/recommend"
	"github.com/tomtom215/cropadvisor/internal/recommend/forest"
)

// FormatVersion identifies the envelope layout.
const FormatVersion = 1

// DefaultName is the model name recorded in artifact metadata.
const DefaultName = "crop_forest"

// Metadata describes a stored model.
type Metadata struct {
	// Name is the model name.
	Name string `json:"name"`

	// FormatVersion is the envelope layout version.
	FormatVersion int `json:"format_version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// SampleCount is the number of synthetic samples used for training.
	SampleCount int `json:"sample_count"`

	// LabelCount is the number of crop labels.
	LabelCount int `json:"label_count"`

	// Estimators is the number of trees.
	Estimators int `json:"estimators"`

	// HoldoutAccuracy is the accuracy on the held-out split.
	HoldoutAccuracy float64 `json:"holdout_accuracy"`

	// Seed is the training seed.
	Seed int64 `json:"seed"`

	// Checksum is the SHA-256 checksum of the uncompressed state.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed state size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// MetadataFromReport fills metadata from a training report.
//
//nolint:gocritic // report passed by value, it is small and read-only
func MetadataFromReport(report forest.Report) Metadata {
	return Metadata{
		Name:               DefaultName,
		TrainedAt:          report.TrainedAt,
		SampleCount:        report.Samples,
		LabelCount:         report.Labels,
		Estimators:         report.Estimators,
		HoldoutAccuracy:    report.HoldoutAccuracy,
		Seed:               report.Seed,
		TrainingDurationMS: report.Duration.Milliseconds(),
	}
}

// Status is the outcome of a Load.
type Status string

// Load statuses.
const (
	StatusLoaded  Status = "loaded"
	StatusAbsent  Status = "absent"
	StatusCorrupt Status = "corrupt"
)

// LoadResult reports what Load found.
type LoadResult struct {
	Status   Status
	State    *forest.State
	Metadata *Metadata

	// Err explains StatusCorrupt. It wraps recommend.ErrArtifactCorrupt.
	Err error
}

// storedFile is the on-disk envelope.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store reads and writes one model artifact.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore returns a store for the artifact at path. The parent directory
// is created on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path.
func (s *Store) Path() string {
	return s.path
}

// Save writes state to the artifact, fully replacing any previous one.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, state *forest.State, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()
	meta.FormatVersion = FormatVersion
	if meta.Name == "" {
		meta.Name = DefaultName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()         //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return nil, fmt.Errorf("replace model file: %w", err)
	}
	committed = true

	return &meta, nil
}

// Load reads and verifies the artifact.
func (s *Store) Load(ctx context.Context) LoadResult {
	if err := ctx.Err(); err != nil {
		return LoadResult{Status: StatusCorrupt, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{Status: StatusAbsent}
	}
	if err != nil {
		return corrupt("open model file: %v", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return corrupt("read model file: %v", err)
	}
	if sf.Metadata.FormatVersion != FormatVersion {
		return corrupt("format version %d, want %d", sf.Metadata.FormatVersion, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return corrupt("decompress model: %v", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return corrupt("read decompressed data: %v", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return corrupt("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var state forest.State
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return corrupt("decode model: %v", err)
	}
	if err := state.Validate(); err != nil {
		return LoadResult{Status: StatusCorrupt, Err: err}
	}

	meta := sf.Metadata
	return LoadResult{Status: StatusLoaded, State: &state, Metadata: &meta}
}

func corrupt(format string, args ...any) LoadResult {
	return LoadResult{
		Status: StatusCorrupt,
		Err:    fmt.Errorf("%w: %s", recommend.ErrArtifactCorrupt, fmt.Sprintf(format, args...)),
	}
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(Metadata{})
	gob.Register(storedFile{})
	gob.Register(forest.State{})
}
