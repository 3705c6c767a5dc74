package features

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Median returns the middle value of values, averaging the two middle values
// when the count is even. It does not modify values. The median of an empty
// slice is NaN.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Mean returns the arithmetic mean of values, NaN when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ElapsedDays returns the whole number of days from t to ref, rounding down
// like a floor division of the duration by 24h.
func ElapsedDays(ref, t time.Time) int {
	return int(math.Floor(ref.Sub(t).Hours() / 24))
}
