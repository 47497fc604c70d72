// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package services adapts CropAdvisor components to the suture.Service
interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve with graceful shutdown. The history recorder already
implements Serve and String and is added to the tree directly.

Returning an error from Serve tells the supervisor to restart the service.
Returning ctx.Err() after cancellation is a clean stop.
*/
package services
