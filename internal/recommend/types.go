// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package recommend

// NumFeatures is the length of every feature vector.
const NumFeatures = 7

// Feature indices into a FeatureVector.
const (
	FeatureNitrogen = iota
	FeaturePhosphorus
	FeaturePotassium
	FeatureTemperature
	FeatureHumidity
	FeaturePH
	FeatureRainfall
)

// FeatureOrder names each feature position, in vector order.
var FeatureOrder = [NumFeatures]string{
	"nitrogen",
	"phosphorus",
	"potassium",
	"temperature",
	"humidity",
	"ph_level",
	"rainfall",
}

// FeatureVector is a single observation in FeatureOrder.
type FeatureVector [NumFeatures]float64

// Sample is a labeled training observation.
type Sample struct {
	Features FeatureVector
	Label    string
}

// Measurements holds a farmer's soil and climate readings by name.
type Measurements struct {
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph_level"`
	Rainfall    float64 `json:"rainfall"`
}

// Vector converts the measurements to the model's feature layout.
//
//nolint:gocritic // value receiver keeps Measurements usable as a plain value type
func (m Measurements) Vector() FeatureVector {
	var v FeatureVector
	v[FeatureNitrogen] = m.Nitrogen
	v[FeaturePhosphorus] = m.Phosphorus
	v[FeaturePotassium] = m.Potassium
	v[FeatureTemperature] = m.Temperature
	v[FeatureHumidity] = m.Humidity
	v[FeaturePH] = m.PH
	v[FeatureRainfall] = m.Rainfall
	return v
}

// ClassProbability is the model's probability for one crop label.
type ClassProbability struct {
	Label       string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// Model is a trained multi-class crop classifier.
//
// Implementations must be safe for concurrent reads.
type Model interface {
	// Classify returns the single best label for the vector.
	Classify(v FeatureVector) string

	// Probabilities returns one entry per training label in Labels() order.
	// Probabilities sum to 1.
	Probabilities(v FeatureVector) []ClassProbability

	// Labels returns the training labels in first-seen training order.
	Labels() []string
}

// Recommendation is the result of one inference.
type Recommendation struct {
	// Primary is the classifier's best label.
	Primary string `json:"primary"`

	// Alternatives lists up to Config.Alternatives labels by descending
	// probability. It normally starts with Primary.
	Alternatives []string `json:"alternatives"`

	// Ranked carries the probabilities behind Alternatives.
	Ranked []ClassProbability `json:"ranked"`

	// Input echoes the measurements after defaults were applied.
	Input Measurements `json:"input"`
}
