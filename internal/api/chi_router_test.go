// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropadvisor/internal/models"
)

func TestRouter_NotFound(t *testing.T) {
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{})

	rec, env := do(t, srv, http.MethodGet, "/api/v1/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v", env.Error)
	}
	if env.Metadata.RequestID == "" {
		t.Error("404 response has no request ID")
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{})

	rec, env := do(t, srv, http.MethodGet, "/api/v1/advisory/crop", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeMethodNotAllowed {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{})

	rec, _ := do(t, srv, http.MethodGet, "/api/v1/advisory/model", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set on plain HTTP: %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/advisory/model", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Metadata.RequestID != "req-abc-123" {
		t.Errorf("request_id = %q, want req-abc-123", env.Metadata.RequestID)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID header = %q", got)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = []string{"https://farm.example.com"}
	mw.RateLimitDisabled = true
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{Middleware: mw})

	tests := []struct {
		origin    string
		wantAllow string
	}{
		{"https://farm.example.com", "https://farm.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/advisory/crop", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	srv := newTestServer(t, newTestHandler(t, Dependencies{}), RouterConfig{Middleware: mw})

	for i := 0; i < 2; i++ {
		rec, _ := do(t, srv, http.MethodGet, "/api/v1/advisory/model", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec, env := do(t, srv, http.MethodGet, "/api/v1/advisory/model", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %+v", env.Error)
	}

	// Health endpoints sit outside the limiter.
	if rec, _ := do(t, srv, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	tests := []struct {
		name       string
		cfg        RouterConfig
		path       string
		wantStatus int
	}{
		{"enabled default path", RouterConfig{MetricsEnabled: true}, "/metrics", http.StatusOK},
		{"enabled custom path", RouterConfig{MetricsEnabled: true, MetricsPath: "/internal/metrics"}, "/internal/metrics", http.StatusOK},
		{"disabled", RouterConfig{}, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, newTestHandler(t, Dependencies{}), tt.cfg)

			// Generate at least one advisory request so the metric exists.
			_, _ = do(t, srv, http.MethodPost, "/api/v1/advisory/fertilizer", `{"nitrogen": 1, "phosphorus": 1, "potassium": 1}`)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && !strings.Contains(rec.Body.String(), "fertilizer_recommendations_total") {
				t.Error("metrics output missing fertilizer counter")
			}
		})
	}
}

func TestHealthLive(t *testing.T) {
	h := newTestHandler(t, Dependencies{Reader: &mockReader{pingErr: errors.New("down")}})
	srv := newTestServer(t, h, RouterConfig{})

	rec, env := do(t, srv, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status models.HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "alive" || !status.ModelReady {
		t.Errorf("status = %+v", status)
	}
	if status.History != "" {
		t.Errorf("live probe reported history %q", status.History)
	}
}

func TestHealthReady_HistoryQueue(t *testing.T) {
	h := newTestHandler(t, Dependencies{Reader: &mockReader{}, Recorder: &mockRecorder{pending: 3}})
	srv := newTestServer(t, h, RouterConfig{})

	rec, env := do(t, srv, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status models.HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.HistoryQueue != 3 {
		t.Errorf("HistoryQueue = %d, want 3", status.HistoryQueue)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name        string
		reader      HistoryReader
		notReady    bool
		wantStatus  int
		wantState   string
		wantHistory string
	}{
		{"history disabled", nil, false, http.StatusOK, "ready", historyDisabled},
		{"history connected", &mockReader{}, false, http.StatusOK, "ready", historyConnected},
		{"history unreachable", &mockReader{pingErr: errors.New("down")}, false, http.StatusOK, "degraded", historyUnreachable},
		{"draining", &mockReader{}, true, http.StatusServiceUnavailable, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, Dependencies{Reader: tt.reader})
			if tt.notReady {
				h.SetReady(false)
			}
			srv := newTestServer(t, h, RouterConfig{})

			rec, env := do(t, srv, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if env.Error == nil || env.Error.Code != CodeUnavailable {
					t.Errorf("error = %+v", env.Error)
				}
				return
			}

			var status models.HealthStatus
			if err := json.Unmarshal(env.Data, &status); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if status.Status != tt.wantState || status.History != tt.wantHistory {
				t.Errorf("status = %+v, want %s/%s", status, tt.wantState, tt.wantHistory)
			}
		})
	}
}
