// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package main is the entry point for the CropAdvisor server.

CropAdvisor recommends crops from soil and climate measurements using a
random forest trained on synthetic agronomic data, and suggests fertilizers
from nitrogen, phosphorus and potassium readings.

# Startup Sequence

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog global logger
 3. Model: load the artifact at MODEL_PATH, or train and save a new one
 4. Engine: crop inference over the live model
 5. History (optional): DuckDB store and background recorder
 6. HTTP: chi router with CORS, rate limiting and Prometheus metrics
 7. Supervision: suture v4 tree until SIGINT or SIGTERM

A model that cannot be loaded or trained is fatal. A history database that
cannot be opened only disables history.

# Supervisor Tree

	RootSupervisor ("cropadvisor")
	├── DataSupervisor ("data-layer")
	│   └── history-recorder (if HISTORY_ENABLED)
	└── APISupervisor ("api-layer")
	    └── http-server

# Example Usage

	export MODEL_PATH=/data/models/crop_forest.gob.gz
	export HISTORY_DB_PATH=/data/cropadvisor.duckdb
	./cropadvisor

	curl -s -X POST localhost:5000/api/v1/advisory/crop \
	  -d '{"nitrogen":90,"phosphorus":42,"potassium":43,"ph_level":6.5,"rainfall":202}'
*/
package main
