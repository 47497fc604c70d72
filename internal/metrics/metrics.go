// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Model sources reported by ModelSource.
const (
	sourceArtifact = "artifact"
	sourceTrained  = "trained"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Model Lifecycle Metrics
	ModelTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crop_model_training_duration_seconds",
			Help:    "Duration of crop model training in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ModelTrainingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_model_training_total",
			Help: "Total number of crop model training runs",
		},
		[]string{"result"}, // success, failure
	)

	ModelHoldoutAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crop_model_holdout_accuracy",
			Help: "Holdout accuracy of the live crop model (0-1)",
		},
	)

	ModelLabels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crop_model_labels",
			Help: "Number of crop labels known to the live model",
		},
	)

	ModelSource = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crop_model_source",
			Help: "Where the live crop model came from (1 for the active source)",
		},
		[]string{"source"}, // artifact, trained
	)

	ArtifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_model_artifact_loads_total",
			Help: "Total number of model artifact load attempts by outcome",
		},
		[]string{"status"}, // loaded, absent, corrupt
	)

	ArtifactSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_model_artifact_saves_total",
			Help: "Total number of model artifact saves by outcome",
		},
		[]string{"result"}, // success, failure
	)

	// Recommendation Metrics
	CropRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_recommendations_total",
			Help: "Total number of crop recommendations by outcome",
		},
		[]string{"outcome"}, // success, missing_field, invalid_field, error
	)

	CropRecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crop_recommendation_duration_seconds",
			Help:    "Crop inference duration in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		},
	)

	FertilizerRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fertilizer_recommendations_total",
			Help: "Total number of fertilizer recommendations by outcome",
		},
		[]string{"outcome"},
	)

	// History Metrics
	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_history_writes_total",
			Help: "Total number of advisory record writes by result",
		},
		[]string{"result"}, // success, error, dropped
	)

	HistoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisory_history_query_duration_seconds",
			Help:    "Duration of advisory history queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// Client Metrics
	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_client_request_duration_seconds",
			Help:    "Duration of advisor client requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordModelTraining records a training run. Duration and accuracy are
// only observed on success.
func RecordModelTraining(duration time.Duration, accuracy float64, success bool) {
	if !success {
		ModelTrainingTotal.WithLabelValues("failure").Inc()
		return
	}
	ModelTrainingTotal.WithLabelValues("success").Inc()
	ModelTrainingDuration.Observe(duration.Seconds())
	ModelHoldoutAccuracy.Set(accuracy)
}

// SetModelInfo publishes the live model's source, accuracy and label count.
func SetModelInfo(source string, accuracy float64, labels int) {
	for _, s := range []string{sourceArtifact, sourceTrained} {
		v := 0.0
		if s == source {
			v = 1
		}
		ModelSource.WithLabelValues(s).Set(v)
	}
	ModelHoldoutAccuracy.Set(accuracy)
	ModelLabels.Set(float64(labels))
}

// RecordArtifactLoad records a load attempt with its status.
func RecordArtifactLoad(status string) {
	ArtifactLoads.WithLabelValues(status).Inc()
}

// RecordArtifactSave records an artifact save.
func RecordArtifactSave(success bool) {
	ArtifactSaves.WithLabelValues(resultLabel(success)).Inc()
}

// RecordCropRecommendation records one crop inference.
func RecordCropRecommendation(outcome string, duration time.Duration) {
	CropRecommendations.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		CropRecommendationDuration.Observe(duration.Seconds())
	}
}

// RecordFertilizerRecommendation records one fertilizer request.
func RecordFertilizerRecommendation(outcome string) {
	FertilizerRecommendations.WithLabelValues(outcome).Inc()
}

// RecordHistoryWrite records an advisory record write result.
func RecordHistoryWrite(result string) {
	HistoryWrites.WithLabelValues(result).Inc()
}

// RecordHistoryQuery records a history query.
func RecordHistoryQuery(duration time.Duration, err error) {
	HistoryQueryDuration.WithLabelValues(resultLabel(err == nil)).Observe(duration.Seconds())
}

// RecordClientRequest records an outbound advisor client call.
func RecordClientRequest(endpoint string, duration time.Duration, err error) {
	ClientRequestDuration.WithLabelValues(endpoint, resultLabel(err == nil)).Observe(duration.Seconds())
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
