// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package forest

import (
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions sample indices into training and holdout sets
// so each class keeps roughly the same proportion in both.
//
// For every class, round(n*fraction) shuffled indices go to holdout. A class
// with at least two samples always keeps one on each side; a singleton
// class stays in training. Both outputs are sorted.
func StratifiedSplit(y []int, numClasses int, fraction float64, rng *rand.Rand) (train, holdout []int) {
	byClass := make([][]int, numClasses)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}

	for _, idx := range byClass {
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})

		n := len(idx)
		k := int(math.Round(float64(n) * fraction))
		switch {
		case n < 2:
			k = 0
		case k < 1:
			k = 1
		case k > n-1:
			k = n - 1
		}

		holdout = append(holdout, idx[:k]...)
		train = append(train, idx[k:]...)
	}

	sort.Ints(train)
	sort.Ints(holdout)
	return train, holdout
}
