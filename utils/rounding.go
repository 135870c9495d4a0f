package utils

import "math"

// Round2 rounds to 2 decimal places, half away from zero. This is the single
// display-rounding convention for every monetary and time output; internal
// computation keeps full float64 precision until results are built.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
