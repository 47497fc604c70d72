// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package client is a Go client for the CropAdvisor HTTP API.

Calls are paced by a token-bucket limiter and protected by a circuit
breaker. The breaker counts transport errors and 5xx responses as failures.
Client mistakes (4xx) are returned as *APIError and do not trip it.

	c, err := client.New(client.Config{BaseURL: "http://localhost:5000"})
	if err != nil {
	    return err
	}
	advice, err := c.RecommendCrop(ctx, client.CropRequest{
	    Nitrogen: 90, Phosphorus: 42, Potassium: 43, PH: 6.5, Rainfall: 202,
	})

# Circuit Breaker

The breaker opens when at least 60% of 10 or more requests in a one-minute
window fail. It stays open for Config.BreakerTimeout, then lets three trial
requests through. State changes are exported through the
circuit_breaker_* metrics under the breaker's name.
*/
package client
