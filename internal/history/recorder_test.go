// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockSaver collects saved records.
type mockSaver struct {
	mu      sync.Mutex
	saved   []Record
	saveErr error
	block   chan struct{}
}

func (m *mockSaver) Save(ctx context.Context, rec *Record) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *rec)
	return nil
}

func (m *mockSaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRecorder_String(t *testing.T) {
	r := NewRecorder(&mockSaver{}, 1, zerolog.Nop())
	if got := r.String(); got != "history-recorder" {
		t.Errorf("String() = %q, want %q", got, "history-recorder")
	}
}

func TestRecorder_SavesQueuedRecords(t *testing.T) {
	saver := &mockSaver{}
	r := NewRecorder(saver, 10, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	for i := 0; i < 3; i++ {
		if !r.Record(Record{FarmerUID: "farmer-1", Type: TypeCrop}) {
			t.Fatal("Record() = false, want true")
		}
	}
	waitFor(t, func() bool { return saver.count() == 3 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	r := NewRecorder(&mockSaver{}, 1, zerolog.Nop())

	if !r.Record(Record{FarmerUID: "a", Type: TypeCrop}) {
		t.Fatal("first Record() = false, want true")
	}
	if r.Record(Record{FarmerUID: "b", Type: TypeCrop}) {
		t.Error("second Record() = true, want false when queue is full")
	}
	if r.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", r.Pending())
	}
}

func TestRecorder_DrainsOnShutdown(t *testing.T) {
	saver := &mockSaver{}
	r := NewRecorder(saver, 5, zerolog.Nop())

	for i := 0; i < 4; i++ {
		r.Record(Record{FarmerUID: "farmer-1", Type: TypeFertilizer})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = r.Serve(ctx)

	// Serve may save some records before observing cancellation; drain
	// handles the rest.
	if got := saver.count(); got != 4 {
		t.Errorf("saved = %d, want 4", got)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
}

func TestRecorder_SaveErrorDoesNotStop(t *testing.T) {
	saver := &mockSaver{saveErr: errors.New("database locked")}
	r := NewRecorder(saver, 5, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	r.Record(Record{FarmerUID: "farmer-1", Type: TypeCrop})
	r.Record(Record{FarmerUID: "farmer-1", Type: TypeCrop})
	waitFor(t, func() bool { return r.Pending() == 0 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestRecorder_WithStore(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s, 5, zerolog.Nop())

	rec := mustRecord(t, "farmer-9", nil, Summary{Type: TypeCrop, Recommendations: []string{"mango"}})
	r.Record(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = r.Serve(ctx)

	got, err := s.ListByFarmer(context.Background(), "farmer-9", 5)
	if err != nil {
		t.Fatalf("ListByFarmer() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(got))
	}
}
