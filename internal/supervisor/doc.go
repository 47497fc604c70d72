// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package supervisor runs the long-lived CropAdvisor services under a suture v4
supervisor tree.

# Overview

Services are grouped into two layers for failure isolation:

	RootSupervisor ("cropadvisor")
	├── DataSupervisor ("data-layer")
	│   └── history.Recorder (if history is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing history writer is restarted without touching the HTTP server, and
recommendations keep working while it recovers. The model is trained or
loaded before the tree starts, so no service waits on it.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(recorder)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

# Restart Policy

Failures decay at FailureDecay seconds. After FailureThreshold failures the
supervisor waits FailureBackoff before restarting again. Supervisor events
are logged through sutureslog, bridged to the zerolog logger.
*/
package supervisor
