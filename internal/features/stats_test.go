package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd count", values: []float64{40, 20, 30}, want: 30},
		{name: "even count averages middle values", values: []float64{20, 40, 30, 50}, want: 35},
		{name: "single value", values: []float64{18}, want: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.values))
		})
	}

	t.Run("empty is NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(Median(nil)))
	})

	t.Run("input is not reordered", func(t *testing.T) {
		values := []float64{3, 1, 2}
		Median(values)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.True(t, math.IsNaN(Mean([]float64{})))
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 3, 5, 17, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestElapsedDays(t *testing.T) {
	ref := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ElapsedDays(ref, ref))
	assert.Equal(t, 9, ElapsedDays(ref, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 8, ElapsedDays(ref, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, ElapsedDays(ref, time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)))
}
