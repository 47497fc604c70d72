// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto
and exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Model Metrics:
  - crop_model_training_duration_seconds: Training time (histogram)
  - crop_model_training_total: Training runs by result (counter)
  - crop_model_holdout_accuracy: Accuracy of the live model (gauge)
  - crop_model_labels: Labels known to the live model (gauge)
  - crop_model_source: 1 for the active source, artifact or trained (gauge)
  - crop_model_artifact_loads_total: Load attempts by status (counter)
  - crop_model_artifact_saves_total: Saves by result (counter)

Recommendation Metrics:
  - crop_recommendations_total: Crop requests by outcome (counter)
  - crop_recommendation_duration_seconds: Inference time (histogram)
  - fertilizer_recommendations_total: Fertilizer requests by outcome (counter)

History Metrics:
  - advisory_history_writes_total: Record writes by result (counter)
  - advisory_history_query_duration_seconds: History query time (histogram)

Client Metrics:
  - advisor_client_request_duration_seconds: Outbound calls (histogram)
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: State changes (counter)

# Usage

	start := time.Now()
	rec, err := engine.Recommend(ctx, fields)
	metrics.RecordCropRecommendation(outcome, time.Since(start))

# Thread Safety

All functions are safe for concurrent use.
*/
package metrics
