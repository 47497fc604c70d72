// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

/*
Package api serves the advisory HTTP API using the Chi router.

# Endpoints

	POST /api/v1/advisory/crop                    crop recommendation
	POST /api/v1/advisory/fertilizer              fertilizer recommendation
	GET  /api/v1/advisory/history/{farmerUID}     a farmer's past advice, newest first
	GET  /api/v1/advisory/model                   live model description
	GET  /api/v1/health/live                      liveness
	GET  /api/v1/health/ready                     readiness (model loaded)
	GET  /metrics                                 Prometheus metrics

# Request Bodies

Recommendation bodies are JSON objects. Measurements may be numbers or
numeric strings:

	{
	  "nitrogen": 90, "phosphorus": 42, "potassium": 43,
	  "ph_level": 6.5, "rainfall": 200,
	  "temperature": 25, "humidity": 70,
	  "farmer_uid": "farmer-01", "land_parcel_id": 7
	}

temperature and humidity are optional. farmer_uid and land_parcel_id are
optional; when farmer_uid is present the advice is recorded in the
farmer's history. The camelCase names phLevel, farmerUid and landParcelId
are also accepted.

# Responses

Every response uses models.APIResponse. Failures carry one of the error
codes MISSING_FIELD, INVALID_FIELD, INVALID_REQUEST or RECOMMENDATION_ERROR.
Invalid input returns 400; anything else returns 500.
*/
package api
