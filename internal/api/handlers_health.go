// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cropadvisor/internal/models"
)

// History states reported by health endpoints.
const (
	historyDisabled    = "disabled"
	historyConnected   = "connected"
	historyUnreachable = "unreachable"
)

// HealthLive handles GET /api/v1/health/live. It succeeds while the
// process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.HealthStatus{
		Status:     "alive",
		ModelReady: h.ready.Load(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:  time.Now().UTC(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. It fails with 503 when the
// handler is not accepting traffic. An unreachable history database only
// degrades the status, since recommendations still work without it.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.ready.Load() {
		respondError(w, r, http.StatusServiceUnavailable,
			&models.APIError{Code: CodeUnavailable, Message: "Service is not ready"}, nil)
		return
	}

	historyState := h.historyState(r.Context())
	status := "ready"
	if historyState == historyUnreachable {
		status = "degraded"
	}

	var queued int
	if h.recorder != nil {
		queued = h.recorder.Pending()
	}

	respondSuccess(w, r, models.HealthStatus{
		Status:       status,
		ModelReady:   true,
		History:      historyState,
		HistoryQueue: queued,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:    time.Now().UTC(),
	}, start)
}

func (h *Handler) historyState(ctx context.Context) string {
	if h.reader == nil {
		return historyDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.reader.Ping(ctx); err != nil {
		return historyUnreachable
	}
	return historyConnected
}
