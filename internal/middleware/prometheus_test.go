// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cropadvisor/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError}

	for _, code := range codes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/test", nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != code {
				t.Errorf("status = %d, want %d", rec.Code, code)
			}
		})
	}
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return PrometheusMetrics(next.ServeHTTP)
	})
	r.Get("/history/{farmerUID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/history/{farmerUID}", "200")
	before := testutil.ToFloat64(counter)

	for _, uid := range []string{"farmer-1", "farmer-2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/"+uid, nil))
	}

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("api_requests_total{endpoint=pattern} = %v, want %v", got, before+2)
	}
}

func TestPrometheusMetrics_TracksActiveRequests(t *testing.T) {
	var during float64
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	})

	before := testutil.ToFloat64(metrics.APIActiveRequests)
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if during != before+1 {
		t.Errorf("active during request = %v, want %v", during, before+1)
	}
	if after := testutil.ToFloat64(metrics.APIActiveRequests); after != before {
		t.Errorf("active after request = %v, want %v", after, before)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	t.Run("default status code is 200", func(t *testing.T) {
		var wrapper *metricsResponseWriter
		handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
			wrapper = w.(*metricsResponseWriter)
			_, _ = w.Write([]byte("body"))
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if wrapper.statusCode != http.StatusOK {
			t.Errorf("statusCode = %d, want 200", wrapper.statusCode)
		}
		if rec.Body.String() != "body" {
			t.Errorf("body = %q, want body", rec.Body.String())
		}
	})

	t.Run("first WriteHeader wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
		rw.WriteHeader(http.StatusCreated)
		rw.WriteHeader(http.StatusInternalServerError)

		if rw.statusCode != http.StatusCreated {
			t.Errorf("statusCode = %d, want 201", rw.statusCode)
		}
		if rw.Unwrap() != rec {
			t.Error("Unwrap() did not return the wrapped writer")
		}
	})
}
