// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cropadvisor/internal/logging"
	"github.com/tomtom215/cropadvisor/internal/metrics"
	"github.com/tomtom215/cropadvisor/internal/models"
	"github.com/tomtom215/cropadvisor/internal/recommend/lifecycle"
	"github.com/tomtom215/cropadvisor/internal/validation"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:5000.
	BaseURL string

	// Timeout bounds each HTTP request. Default: 10s
	Timeout time.Duration

	// RequestsPerSecond paces outgoing calls. Default: 10
	RequestsPerSecond float64

	// Burst is the limiter bucket size. Default: 5
	Burst int

	// BreakerName labels circuit breaker metrics. Default: cropadvisor-api
	BreakerName string

	// BreakerTimeout is how long the breaker stays open. Default: 30s
	BreakerTimeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client calls the CropAdvisor API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	name    string
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "cropadvisor-api"
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL: base.String(),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:      newBreaker(cfg.BreakerName, cfg.BreakerTimeout),
		name:    cfg.BreakerName,
	}, nil
}

func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		// The server answering 4xx is healthy.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && !apiErr.Temporary()
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State returns the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

// RecommendCrop asks for a crop recommendation.
//
//nolint:gocritic // request passed by value, it is the call's input
func (c *Client) RecommendCrop(ctx context.Context, req CropRequest) (*models.CropAdvisory, error) {
	var out models.CropAdvisory
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/advisory/crop", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecommendFertilizer asks for fertilizer advice.
func (c *Client) RecommendFertilizer(ctx context.Context, req FertilizerRequest) (*models.FertilizerAdvisory, error) {
	var out models.FertilizerAdvisory
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/advisory/fertilizer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ErrInvalidFarmerUID rejects a farmer UID before any request is sent.
// UIDs are 1-128 letters, digits, '-' or '_'.
var ErrInvalidFarmerUID = errors.New("invalid farmer UID")

// History lists a farmer's stored advice, newest first. A zero limit uses
// the server default.
func (c *Client) History(ctx context.Context, farmerUID string, limit int) (*models.AdvisoryHistory, error) {
	if !validation.ValidFarmerUID(farmerUID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFarmerUID, farmerUID)
	}
	path := "/api/v1/advisory/history/" + url.PathEscape(farmerUID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var out models.AdvisoryHistory
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Model describes the server's live model.
func (c *Client) Model(ctx context.Context) (*lifecycle.ModelInfo, error) {
	var out lifecycle.ModelInfo
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/advisory/model", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doRequest sends one API call through the limiter and breaker and decodes
// the envelope's data into out.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	err := c.execute(ctx, method, path, body, out)
	metrics.RecordClientRequest(endpointLabel(path), time.Since(start), err)
	return err
}

func (c *Client) execute(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	c.recordBreakerResult(err)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func (c *Client) recordBreakerResult(err error) {
	var apiErr *APIError
	switch {
	case err == nil, errors.As(err, &apiErr) && !apiErr.Temporary():
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		logging.Warn().Err(err).Str("breaker", c.name).Msg("Circuit breaker rejected request")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		counts := c.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(counts.ConsecutiveFailures))
	}
}

// roundTrip performs the HTTP exchange and returns the envelope's raw data.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body fully read

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status != models.StatusSuccess {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}
	return env.Data, nil
}

// endpointLabel keeps metric cardinality bounded by dropping path
// parameters and query strings.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if strings.HasPrefix(path, "/api/v1/advisory/history/") {
		return "/api/v1/advisory/history/{farmerUID}"
	}
	return path
}
