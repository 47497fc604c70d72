// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cropadvisor/internal/middleware"
	"github.com/tomtom215/cropadvisor/internal/models"
)

// RouterConfig configures the HTTP routes.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig

	// MetricsEnabled exposes Prometheus metrics at MetricsPath.
	MetricsEnabled bool
	MetricsPath    string
}

// Router wires the Handler to Chi routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	cfg           RouterConfig
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg.Middleware),
		cfg:           cfg,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler with all routes and middleware.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, &models.APIError{Code: "NOT_FOUND", Message: "Not found"}, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed,
			&models.APIError{Code: CodeMethodNotAllowed, Message: "Method not allowed"}, nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/advisory", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/crop", router.handler.RecommendCrop)
		r.Post("/fertilizer", router.handler.RecommendFertilizer)
		r.Get("/history/{farmerUID}", router.handler.History)
		r.Get("/model", router.handler.ModelStatus)
	})

	if router.cfg.MetricsEnabled {
		r.Handle(router.cfg.MetricsPath, promhttp.Handler())
	}

	return r
}
