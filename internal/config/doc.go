// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package config loads service configuration with Koanf v2.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, config.yaml, config.yml,
    /etc/cropadvisor/config.yaml or /etc/cropadvisor/config.yml
 3. Environment variables listed in envMappings

Example config.yaml:

	server:
	  port: 8000
	model:
	  path: /data/models/crop_forest.gob.gz
	  seed: 42
	  estimators: 20
	history:
	  enabled: true
	  path: /data/cropadvisor.duckdb

Equivalent environment:

	HTTP_PORT=8000
	MODEL_PATH=/data/models/crop_forest.gob.gz
	MODEL_SEED=42
	MODEL_ESTIMATORS=20
	HISTORY_ENABLED=true
	HISTORY_DB_PATH=/data/cropadvisor.duckdb

Unknown environment variables are ignored. Comma-separated values are
accepted for list settings such as CORS_ORIGINS.
*/
package config
