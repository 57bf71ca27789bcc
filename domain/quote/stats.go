package quote

import "math"

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// AcceptanceRate is the single definition of an acceptance rate: accepted
// over total, rounded to 3 decimals. Every grouping dimension uses this.
func AcceptanceRate(accepted, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(accepted)/float64(total), 3)
}
