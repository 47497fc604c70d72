// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cropadvisor/internal/metrics"
)

// DefaultQueueSize is the Recorder buffer used when none is configured.
const DefaultQueueSize = 256

const (
	saveTimeout  = 5 * time.Second
	drainTimeout = 5 * time.Second
)

// Saver persists a single record.
type Saver interface {
	Save(ctx context.Context, rec *Record) error
}

// Recorder queues records and saves them in the background. It implements
// suture.Service.
type Recorder struct {
	saver  Saver
	queue  chan Record
	logger zerolog.Logger
	name   string
}

// NewRecorder creates a Recorder with room for queueSize pending records.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(saver Saver, queueSize int, logger zerolog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		saver:  saver,
		queue:  make(chan Record, queueSize),
		logger: logger.With().Str("service", "history-recorder").Logger(),
		name:   "history-recorder",
	}
}

// Record queues rec without blocking. It returns false and drops the
// record when the queue is full.
//
//nolint:gocritic // Record passed by value so the queued copy is independent
func (r *Recorder) Record(rec Record) bool {
	select {
	case r.queue <- rec:
		return true
	default:
		metrics.RecordHistoryWrite("dropped")
		r.logger.Warn().
			Str("farmer_uid", rec.FarmerUID).
			Str("type", string(rec.Type)).
			Msg("history queue full, dropping advisory record")
		return false
	}
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	return len(r.queue)
}

// Serve saves queued records until ctx is done, then drains what is left.
func (r *Recorder) Serve(ctx context.Context) error {
	r.logger.Info().Int("queue_size", cap(r.queue)).Msg("history recorder starting")

	for {
		if ctx.Err() != nil {
			r.drain()
			r.logger.Info().Msg("history recorder shutting down")
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
		case rec := <-r.queue:
			r.save(ctx, rec)
		}
	}
}

// drain saves the records still queued, giving up after drainTimeout.
func (r *Recorder) drain() {
	deadline := time.Now().Add(drainTimeout)
	for time.Now().Before(deadline) {
		select {
		case rec := <-r.queue:
			r.save(context.Background(), rec)
		default:
			return
		}
	}
}

// save runs detached from ctx cancellation so an accepted record is not
// lost to shutdown.
//
//nolint:gocritic // Record passed by value, it is saved and discarded
func (r *Recorder) save(ctx context.Context, rec Record) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := r.saver.Save(saveCtx, &rec); err != nil {
		metrics.RecordHistoryWrite("error")
		r.logger.Error().Err(err).
			Str("farmer_uid", rec.FarmerUID).
			Str("type", string(rec.Type)).
			Msg("failed to save advisory record")
		return
	}
	metrics.RecordHistoryWrite("success")
	r.logger.Debug().Str("id", rec.ID).Str("farmer_uid", rec.FarmerUID).Msg("advisory record saved")
}

// String returns the service name for logging.
func (r *Recorder) String() string {
	return r.name
}
