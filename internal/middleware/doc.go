// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package middleware provides HTTP middleware components for the application.

Key Components:

  - Request ID: UUID-based request tracking, shared with chi's request ID
    key and the logging context
  - Prometheus Metrics: HTTP request/response instrumentation labelled by
    chi route pattern

Both are installed on the chi router in internal/api:

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
