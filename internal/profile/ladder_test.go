package profile

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
)

func barAt(low, high, volume float64) models.Bar {
	return models.Bar{
		Symbol:    "GC",
		Timestamp: time.Date(2024, 11, 4, 9, 30, 0, 0, time.UTC),
		Open:      low,
		High:      high,
		Low:       low,
		Close:     high,
		Volume:    volume,
	}
}

func TestStepForRejectsBadGranularity(t *testing.T) {
	tests := []struct {
		name        string
		granularity float64
		aggregate   bool
	}{
		{"zero", 0, false},
		{"negative", -0.01, false},
		{"below ladder precision", 0.0004, false},
		{"outside accepted set", 0.013, true},
		{"outside accepted set large", 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.aggregate {
				_, err = aggregateStepFor(tt.granularity)
			} else {
				_, err = stepFor(tt.granularity)
			}
			require.ErrorIs(t, err, ErrInvalidGranularity)
		})
	}
}

func TestStepForAcceptedSet(t *testing.T) {
	for _, g := range []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.10, 0.25} {
		step, err := aggregateStepFor(g)
		require.NoError(t, err, "granularity %v", g)
		require.Equal(t, milli(math.Round(g*1000)), step)
	}
}

func TestLevelsSpacingAndBounds(t *testing.T) {
	bars := []models.Bar{barAt(9.993, 10.237, 100)}
	for _, g := range []float64{0.05, 0.25} {
		levels, err := Levels(bars, g)
		require.NoError(t, err)
		require.NotEmpty(t, levels)

		lo := math.Floor(9.993*1000) / 1000
		hi := math.Ceil(10.237*1000) / 1000
		for i, p := range levels {
			if p < lo || p >= hi {
				t.Fatalf("level %v outside [%v, %v)", p, lo, hi)
			}
			if i > 0 {
				got := toMilli(p) - toMilli(levels[i-1])
				require.Equal(t, toMilli(g), got, "uneven spacing at %d", i)
			}
		}
	}
}

func TestLevelsDeterministic(t *testing.T) {
	// Granularities that are not exact binary fractions must still produce
	// bit-identical keys across runs.
	bars := []models.Bar{barAt(10.001, 10.999, 50)}
	first, err := Levels(bars, 0.05)
	require.NoError(t, err)
	second, err := Levels(bars, 0.05)
	require.NoError(t, err)
	require.Equal(t, first, second)
	for _, p := range first {
		require.Equal(t, p, math.Round(p*1000)/1000, "key %v drifted off the 3dp grid", p)
	}
}

func TestLevelsEmptySeries(t *testing.T) {
	_, err := Levels(nil, 0.01)
	require.ErrorIs(t, err, ErrEmptySeries)
}
