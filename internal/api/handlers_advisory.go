// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cropadvisor/internal/fertilizer"
	"github.com/tomtom215/cropadvisor/internal/history"
	"github.com/tomtom215/cropadvisor/internal/logging"
	"github.com/tomtom215/cropadvisor/internal/metrics"
	"github.com/tomtom215/cropadvisor/internal/models"
	"github.com/tomtom215/cropadvisor/internal/validation"
)

// cropAdvice is the human-readable summary of a crop recommendation.
func cropAdvice(crop string) string {
	return fmt.Sprintf("AI suggests %s based on your soil profile.", crop)
}

// RecommendCrop handles POST /api/v1/advisory/crop.
func (h *Handler) RecommendCrop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fields, apiErr := decodeFields(w, r, h.maxBodyBytes)
	if apiErr != nil {
		metrics.RecordCropRecommendation(outcomeInvalidBody, 0)
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	identity, apiErr := parseIdentity(r.Context(), fields)
	if apiErr != nil {
		metrics.RecordCropRecommendation(outcomeInvalidBody, 0)
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	rec, err := h.crop.Recommend(r.Context(), fields)
	if err != nil {
		f := classifyRecommendError(err)
		metrics.RecordCropRecommendation(f.outcome, 0)
		var logged error
		if f.status >= http.StatusInternalServerError {
			logged = err
		}
		respondError(w, r, f.status, &models.APIError{Code: f.code, Message: f.message, Details: f.details}, logged)
		return
	}
	metrics.RecordCropRecommendation(outcomeSuccess, time.Since(start))

	info := h.model.Info()
	advisory := models.CropAdvisory{
		Type:          models.AdvisoryTypeCrop,
		Primary:       rec.Primary,
		Alternatives:  rec.Alternatives,
		Probabilities: rec.Ranked,
		Advice:        cropAdvice(rec.Primary),
		Input:         rec.Input,
		Model: models.ModelSummary{
			Source:          string(info.Source),
			TrainedAt:       info.TrainedAt,
			HoldoutAccuracy: info.HoldoutAccuracy,
			Estimators:      info.Estimators,
		},
	}

	h.recordHistory(r.Context(), identity, history.Summary{
		Type:            history.TypeCrop,
		Recommendations: advisory.Alternatives,
		Advice:          advisory.Advice,
	})

	respondSuccess(w, r, advisory, start)
}

// RecommendFertilizer handles POST /api/v1/advisory/fertilizer.
func (h *Handler) RecommendFertilizer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fields, apiErr := decodeFields(w, r, h.maxBodyBytes)
	if apiErr != nil {
		metrics.RecordFertilizerRecommendation(outcomeInvalidBody)
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	identity, apiErr := parseIdentity(r.Context(), fields)
	if apiErr != nil {
		metrics.RecordFertilizerRecommendation(outcomeInvalidBody)
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	recs, err := fertilizer.AdviseFields(fields)
	if err != nil {
		f := classifyRecommendError(err)
		metrics.RecordFertilizerRecommendation(f.outcome)
		respondError(w, r, f.status, &models.APIError{Code: f.code, Message: f.message, Details: f.details}, nil)
		return
	}
	metrics.RecordFertilizerRecommendation(outcomeSuccess)

	advisory := models.FertilizerAdvisory{
		Type:            models.AdvisoryTypeFertilizer,
		Recommendations: recs,
		Advice:          fertilizer.AdviceMessage,
	}

	h.recordHistory(r.Context(), identity, history.Summary{
		Type:            history.TypeFertilizer,
		Recommendations: advisory.Recommendations,
		Advice:          advisory.Advice,
	})

	respondSuccess(w, r, advisory, start)
}

// recordHistory queues the advice for the farmer's history. Anonymous
// requests and disabled history are skipped. Failures never reach the
// client.
func (h *Handler) recordHistory(ctx context.Context, identity validation.AdvisoryIdentity, summary history.Summary) {
	if h.recorder == nil || identity.FarmerUID == "" {
		return
	}

	rec, err := history.NewRecord(identity.FarmerUID, identity.LandParcelID, summary)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to build advisory record")
		return
	}
	h.recorder.Record(rec)
}

// History handles GET /api/v1/advisory/history/{farmerUID}?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.reader == nil {
		respondError(w, r, http.StatusServiceUnavailable,
			&models.APIError{Code: CodeUnavailable, Message: "Advisory history is disabled"}, nil)
		return
	}

	limit, err := getIntParam(r, "limit", history.DefaultListLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, invalidRequest(err.Error()), nil)
		return
	}
	query := validation.HistoryQuery{
		FarmerUID: chi.URLParam(r, "farmerUID"),
		Limit:     limit,
	}
	if apiErr := validateRequest(r.Context(), &query); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	records, err := h.reader.ListByFarmer(r.Context(), query.FarmerUID, query.Limit)
	metrics.RecordHistoryQuery(time.Since(start), err)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError,
			&models.APIError{Code: CodeHistoryError, Message: "Failed to load advisory history"}, err)
		return
	}

	respondSuccess(w, r, models.AdvisoryHistory{
		FarmerUID: query.FarmerUID,
		Records:   records,
		Count:     len(records),
		Limit:     query.Limit,
	}, start)
}

// ModelStatus handles GET /api/v1/advisory/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.model.Info(), time.Now())
}
