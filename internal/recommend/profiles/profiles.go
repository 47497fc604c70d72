// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Package profiles holds the fixed registry of agronomic crop profiles used
// to generate training data.
//
// The registry is built once at package initialization and never mutated.
// All accessors return copies.
package profiles

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Mid returns the center of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Profile describes the soil and rainfall conditions a crop tolerates.
// Temperature and humidity are not profiled per crop.
type Profile struct {
	Name       string `json:"name"`
	Nitrogen   Range  `json:"nitrogen"`
	Phosphorus Range  `json:"phosphorus"`
	Potassium  Range  `json:"potassium"`
	PH         Range  `json:"ph"`
	Rainfall   Range  `json:"rainfall"`
}

// Generic climate ranges shared by every crop.
var (
	Temperature = Range{Min: 20, Max: 35}
	Humidity    = Range{Min: 40, Max: 90}
)

// registry in canonical order. Label order during training follows it.
var registry = []Profile{
	{Name: "rice", Nitrogen: Range{60, 90}, Phosphorus: Range{35, 60}, Potassium: Range{35, 45}, PH: Range{5.0, 7.8}, Rainfall: Range{150, 250}},
	{Name: "maize", Nitrogen: Range{60, 100}, Phosphorus: Range{30, 60}, Potassium: Range{15, 25}, PH: Range{5.5, 7.0}, Rainfall: Range{60, 100}},
	{Name: "chickpea", Nitrogen: Range{20, 60}, Phosphorus: Range{50, 80}, Potassium: Range{70, 90}, PH: Range{6.0, 7.5}, Rainfall: Range{60, 90}},
	{Name: "kidneybeans", Nitrogen: Range{10, 40}, Phosphorus: Range{50, 80}, Potassium: Range{15, 25}, PH: Range{5.5, 6.5}, Rainfall: Range{60, 120}},
	{Name: "pigeonpeas", Nitrogen: Range{10, 40}, Phosphorus: Range{50, 80}, Potassium: Range{15, 25}, PH: Range{4.5, 7.0}, Rainfall: Range{80, 150}},
	{Name: "mothbeans", Nitrogen: Range{0, 40}, Phosphorus: Range{30, 60}, Potassium: Range{15, 25}, PH: Range{3.5, 9.0}, Rainfall: Range{30, 70}},
	{Name: "mungbean", Nitrogen: Range{0, 40}, Phosphorus: Range{30, 60}, Potassium: Range{15, 25}, PH: Range{6.0, 7.5}, Rainfall: Range{30, 60}},
	{Name: "blackgram", Nitrogen: Range{20, 60}, Phosphorus: Range{50, 80}, Potassium: Range{15, 25}, PH: Range{6.5, 7.8}, Rainfall: Range{60, 80}},
	{Name: "lentil", Nitrogen: Range{0, 40}, Phosphorus: Range{50, 80}, Potassium: Range{15, 25}, PH: Range{5.8, 7.0}, Rainfall: Range{35, 60}},
	{Name: "pomegranate", Nitrogen: Range{10, 50}, Phosphorus: Range{5, 30}, Potassium: Range{35, 45}, PH: Range{5.5, 7.2}, Rainfall: Range{100, 120}},
	{Name: "banana", Nitrogen: Range{80, 120}, Phosphorus: Range{70, 95}, Potassium: Range{45, 55}, PH: Range{5.5, 6.5}, Rainfall: Range{90, 120}},
	{Name: "mango", Nitrogen: Range{0, 40}, Phosphorus: Range{15, 40}, Potassium: Range{25, 35}, PH: Range{4.5, 6.5}, Rainfall: Range{80, 100}},
	{Name: "grapes", Nitrogen: Range{0, 50}, Phosphorus: Range{120, 145}, Potassium: Range{195, 205}, PH: Range{5.5, 6.5}, Rainfall: Range{60, 80}},
	{Name: "watermelon", Nitrogen: Range{80, 120}, Phosphorus: Range{5, 30}, Potassium: Range{45, 55}, PH: Range{6.0, 7.0}, Rainfall: Range{40, 60}},
	{Name: "muskmelon", Nitrogen: Range{80, 120}, Phosphorus: Range{5, 30}, Potassium: Range{45, 55}, PH: Range{6.0, 6.8}, Rainfall: Range{40, 60}},
	{Name: "apple", Nitrogen: Range{0, 40}, Phosphorus: Range{120, 145}, Potassium: Range{195, 205}, PH: Range{5.5, 6.5}, Rainfall: Range{100, 120}},
	{Name: "orange", Nitrogen: Range{0, 40}, Phosphorus: Range{5, 30}, Potassium: Range{5, 15}, PH: Range{6.0, 7.5}, Rainfall: Range{100, 120}},
	{Name: "papaya", Nitrogen: Range{30, 70}, Phosphorus: Range{40, 70}, Potassium: Range{45, 55}, PH: Range{6.0, 7.0}, Rainfall: Range{100, 200}},
	{Name: "coconut", Nitrogen: Range{0, 40}, Phosphorus: Range{5, 30}, Potassium: Range{25, 35}, PH: Range{5.0, 6.5}, Rainfall: Range{150, 250}},
	{Name: "cotton", Nitrogen: Range{100, 140}, Phosphorus: Range{35, 60}, Potassium: Range{15, 25}, PH: Range{5.5, 7.5}, Rainfall: Range{60, 100}},
	{Name: "jute", Nitrogen: Range{60, 100}, Phosphorus: Range{35, 60}, Potassium: Range{35, 45}, PH: Range{6.0, 7.5}, Rainfall: Range{150, 200}},
	{Name: "coffee", Nitrogen: Range{80, 120}, Phosphorus: Range{15, 40}, Potassium: Range{25, 35}, PH: Range{6.0, 7.5}, Rainfall: Range{120, 200}},
}

var byName = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, p := range registry {
		m[p.Name] = i
	}
	return m
}()

// All returns a copy of every profile in registry order.
func All() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// Names returns the crop names in registry order.
func Names() []string {
	out := make([]string, len(registry))
	for i, p := range registry {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the profile for name.
func Lookup(name string) (Profile, bool) {
	i, ok := byName[name]
	if !ok {
		return Profile{}, false
	}
	return registry[i], true
}

// Len returns the number of registered crops.
func Len() int {
	return len(registry)
}
