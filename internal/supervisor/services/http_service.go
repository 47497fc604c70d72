// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer matches the *http.Server lifecycle methods.
//
// Tests substitute a fake that records calls, so the service never needs
// a real listener to exercise its shutdown ordering.
//
// Satisfied by *http.Server from net/http:
//   - ListenAndServe() error
//   - Shutdown(ctx context.Context) error
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server as a supervised service.
//
// It adapts the blocking ListenAndServe call to suture's context-aware
// Serve contract:
//
//  1. ListenAndServe runs in its own goroutine
//  2. Serve waits for a server error or context cancellation
//  3. On cancellation the OnShutdown hook runs, then Shutdown drains
//     in-flight requests within shutdownTimeout
//
// Readiness probes should fail before the listener closes, which is what
// the hook is for.
//
// Example usage:
//
//	server := &http.Server{Addr: ":5000", Handler: router.SetupChi()}
//	svc := services.NewHTTPServerService(server, 10*time.Second)
//	svc.OnShutdown(func() { handler.SetReady(false) })
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
	onShutdown      func()
}

// NewHTTPServerService wraps server.
//
// shutdownTimeout bounds how long Shutdown waits for active connections.
// A non-positive value uses 10s. Advisory requests finish in milliseconds,
// so the default leaves ample room.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// OnShutdown registers fn to run before the server drains, typically to
// fail readiness probes.
func (h *HTTPServerService) OnShutdown(fn func()) {
	h.onShutdown = fn
}

// Serve implements suture.Service.
//
// It returns:
//   - a wrapped error when ListenAndServe fails, e.g. the port is taken
//   - a wrapped error when Shutdown exceeds the timeout
//   - ctx.Err() after a graceful shutdown, so suture does not restart it
//
// http.ErrServerClosed is expected during shutdown and never reported.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		if h.onShutdown != nil {
			h.onShutdown()
		}

		// The serve context is already canceled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer. Suture uses it to name the service in
// its log events.
func (h *HTTPServerService) String() string {
	return h.name
}
