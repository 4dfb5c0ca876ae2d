package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailingAverage(t *testing.T) {
	series := []DayCount{
		{Count: 4}, {Count: 2}, {Count: 6}, {Count: 0}, {Count: 8},
	}

	t.Run("window of three", func(t *testing.T) {
		got := TrailingAverage(series, 3)
		want := []float64{4, 3, 4, 8.0 / 3, 14.0 / 3}
		assert.InDeltaSlice(t, want, got, 1e-9)
	})

	t.Run("window larger than the series averages the prefix", func(t *testing.T) {
		got := TrailingAverage(series, 10)
		assert.InDelta(t, 4, got[4], 1e-9)
	})

	t.Run("non-positive window defaults to seven", func(t *testing.T) {
		assert.Equal(t, TrailingAverage(series, 7), TrailingAverage(series, 0))
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Empty(t, TrailingAverage(nil, 3))
	})
}
