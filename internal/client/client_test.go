// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cropadvisor/internal/models"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, resp *models.APIResponse) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: url, RequestsPerSecond: 1000, Burst: 100, BreakerName: t.Name()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "://bad"} {
		if _, err := New(Config{BaseURL: u}); err == nil {
			t.Errorf("New(%q) error = nil", u)
		}
	}
}

func TestRecommendCrop(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/advisory/crop" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeEnvelope(t, w, http.StatusOK, &models.APIResponse{
			Status: models.StatusSuccess,
			Data: models.CropAdvisory{
				Type:         models.AdvisoryTypeCrop,
				Primary:      "rice",
				Alternatives: []string{"rice", "jute"},
				Advice:       "AI suggests rice based on your soil profile.",
			},
		})
	}))
	defer srv.Close()

	parcel := int64(5)
	c := newTestClient(t, srv.URL+"/")
	got, err := c.RecommendCrop(context.Background(), CropRequest{
		Nitrogen: 90, Phosphorus: 42, Potassium: 43, PH: 6.5, Rainfall: 202,
		FarmerUID: "f1", LandParcelID: &parcel,
	})
	if err != nil {
		t.Fatalf("RecommendCrop() error = %v", err)
	}
	if got.Primary != "rice" || len(got.Alternatives) != 2 {
		t.Errorf("advisory = %+v", got)
	}

	if _, ok := gotBody["temperature"]; ok {
		t.Error("nil temperature was sent")
	}
	if gotBody["ph_level"] != 6.5 || gotBody["farmer_uid"] != "f1" || gotBody["land_parcel_id"] != float64(5) {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestHistory_PathAndLimit(t *testing.T) {
	tests := []struct {
		uid       string
		limit     int
		wantPath  string
		wantQuery string
	}{
		{"farmer-01", 5, "/api/v1/advisory/history/farmer-01", "limit=5"},
		{"farmer-01", 0, "/api/v1/advisory/history/farmer-01", ""},
		{"farmer_02", 100, "/api/v1/advisory/history/farmer_02", "limit=100"},
	}

	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath || r.URL.RawQuery != tt.wantQuery {
					t.Errorf("URL = %s?%s, want %s?%s", r.URL.Path, r.URL.RawQuery, tt.wantPath, tt.wantQuery)
				}
				writeEnvelope(t, w, http.StatusOK, &models.APIResponse{
					Status: models.StatusSuccess,
					Data:   models.AdvisoryHistory{FarmerUID: tt.uid, Count: 0, Limit: 20},
				})
			}))
			defer srv.Close()

			got, err := newTestClient(t, srv.URL).History(context.Background(), tt.uid, tt.limit)
			if err != nil {
				t.Fatalf("History() error = %v", err)
			}
			if got.FarmerUID != tt.uid {
				t.Errorf("FarmerUID = %q", got.FarmerUID)
			}
		})
	}
}

func TestHistory_InvalidFarmerUID(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for _, uid := range []string{"", "a b", "../admin", strings.Repeat("x", 129)} {
		if _, err := c.History(context.Background(), uid, 0); !errors.Is(err, ErrInvalidFarmerUID) {
			t.Errorf("History(%q) error = %v, want ErrInvalidFarmerUID", uid, err)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestClient_APIErrorDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeEnvelope(t, w, http.StatusBadRequest, &models.APIResponse{
			Status: models.StatusError,
			Error: &models.APIError{
				Code:    "MISSING_FIELD",
				Message: "missing field: rainfall",
				Details: map[string]any{"field": "rainfall"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 15; i++ {
		_, err := c.RecommendFertilizer(context.Background(), FertilizerRequest{Nitrogen: 1})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "MISSING_FIELD" || apiErr.Details["field"] != "rainfall" {
			t.Fatalf("APIError = %+v", apiErr)
		}
		if apiErr.Temporary() {
			t.Error("400 reported as temporary")
		}
	}

	if c.State() != gobreaker.StateClosed {
		t.Errorf("breaker state = %s, want closed", c.State())
	}
	if hits.Load() != 15 {
		t.Errorf("server hits = %d, want 15", hits.Load())
	}
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeEnvelope(t, w, http.StatusInternalServerError, &models.APIResponse{
			Status: models.StatusError,
			Error:  &models.APIError{Code: "RECOMMENDATION_ERROR", Message: "Failed to generate recommendation"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := c.Model(ctx); err == nil {
			t.Fatal("Model() error = nil")
		}
	}
	if c.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %s, want open", c.State())
	}

	_, err := c.Model(ctx)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if hits.Load() != 10 {
		t.Errorf("server hits = %d, want 10", hits.Load())
	}
}

func TestClient_NonJSONErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Model(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || !apiErr.Temporary() {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Model(context.Background())
	if err == nil {
		t.Fatal("error = nil for closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport error reported as APIError: %v", err)
	}
}

func TestClient_ContextCanceledWhileRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(t, w, http.StatusOK, &models.APIResponse{Status: models.StatusSuccess, Data: map[string]any{}})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, RequestsPerSecond: 0.001, Burst: 1, BreakerName: t.Name()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Model(context.Background()); err != nil {
		t.Fatalf("first Model() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Model(ctx); err == nil {
		t.Error("second Model() error = nil, want rate limiter error")
	}
}

func TestEndpointLabel(t *testing.T) {
	tests := map[string]string{
		"/api/v1/advisory/crop":               "/api/v1/advisory/crop",
		"/api/v1/advisory/history/f1?limit=5": "/api/v1/advisory/history/{farmerUID}",
		"/api/v1/advisory/model":              "/api/v1/advisory/model",
	}
	for in, want := range tests {
		if got := endpointLabel(in); got != want {
			t.Errorf("endpointLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
