// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/standings-forecast/pkg/constants"
)

// RunRate returns runs per over for the given number of balls. A side that has
// not faced a ball has a rate of zero.
func RunRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(runs) / (float64(balls) / constants.BallsPerOver)
}

// Round rounds a value to the given number of decimal places.
func Round(val float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(val*pow) / pow
}

// FloorFraction returns floor(n * fraction), the bound of a search window.
func FloorFraction(n int, fraction float64) int {
	return int(math.Floor(float64(n) * fraction))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
