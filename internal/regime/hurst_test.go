package regime

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
)

func randomWalk(rng *rand.Rand, n int) []float64 {
	series := make([]float64, n)
	level := 100.0
	for i := range series {
		level += rng.NormFloat64()
		series[i] = level
	}
	return series
}

// integratedWalk sums a random walk, producing a strongly persistent series.
func integratedWalk(rng *rand.Rand, n int) []float64 {
	series := make([]float64, n)
	level, drift := 100.0, 0.0
	for i := range series {
		drift += rng.NormFloat64()
		level += drift
		series[i] = level
	}
	return series
}

func whiteNoise(rng *rand.Rand, n int) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = 100.0 + rng.NormFloat64()
	}
	return series
}

func TestExponentShortSeriesUndefined(t *testing.T) {
	series := make([]float64, 99)
	for i := range series {
		series[i] = float64(i)
	}
	_, ok := Exponent(series, 100)
	assert.False(t, ok)

	_, ok = Exponent(nil, 100)
	assert.False(t, ok)
}

func TestExponentRandomWalkNearHalf(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	series := randomWalk(rng, 2000)

	hurst, ok := Exponent(series, 100)
	require.True(t, ok)
	assert.InDelta(t, 0.5, hurst, 0.12)
}

func TestExponentPersistentSeriesHigh(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	series := integratedWalk(rng, 2000)

	hurst, ok := Exponent(series, 100)
	require.True(t, ok)
	assert.Greater(t, hurst, 0.51)
}

func TestExponentNoiseLow(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	series := whiteNoise(rng, 2000)

	hurst, ok := Exponent(series, 100)
	require.True(t, ok)
	assert.Less(t, hurst, 0.49)
}

func TestExponentConstantSeries(t *testing.T) {
	series := make([]float64, 200)
	for i := range series {
		series[i] = 50.0
	}
	hurst, ok := Exponent(series, 100)
	require.True(t, ok)
	assert.InDelta(t, 0.0, hurst, 1e-9)
}

func TestClassifyBands(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		hurst float64
		want  Label
	}{
		{0.30, MeanReverting},
		{0.489, MeanReverting},
		{0.49, RandomWalk},
		{0.50, RandomWalk},
		{0.51, RandomWalk},
		{0.511, Trending},
		{0.80, Trending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Classify(tt.hurst), "hurst=%v", tt.hurst)
	}
}

func TestClassifyCustomBands(t *testing.T) {
	cfg := Config{MaxLag: 100, LowerBand: 0.40, UpperBand: 0.60}
	assert.Equal(t, RandomWalk, cfg.Classify(0.45))
	assert.Equal(t, MeanReverting, cfg.Classify(0.39))
	assert.Equal(t, Trending, cfg.Classify(0.61))
}

func dayBars(day time.Time, closes []float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Symbol:    "GC",
			Timestamp: day.Add(time.Duration(i) * time.Minute),
			Open:      c, High: c, Low: c, Close: c,
		}
	}
	return bars
}

func TestAnalyzeTrends(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	day0 := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	day1 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	var bars []models.Bar
	bars = append(bars, dayBars(day0, randomWalk(rng, 30))...)   // partial first day
	bars = append(bars, dayBars(day1, randomWalk(rng, 500))...)  // computable
	bars = append(bars, dayBars(day2, randomWalk(rng, 50))...)   // too short

	analysis := AnalyzeTrends(bars, DefaultConfig())

	require.Len(t, analysis.Records, 1)
	assert.Equal(t, "2024-03-05", analysis.Records[0].Date)
	assert.Equal(t, 1, analysis.Skipped)

	total := 0
	for _, n := range analysis.Counts {
		total += n
	}
	assert.Equal(t, 1, total)
}

func TestAnalyzeTrendsEmpty(t *testing.T) {
	analysis := AnalyzeTrends(nil, DefaultConfig())
	assert.Empty(t, analysis.Records)
	assert.Zero(t, analysis.Skipped)
}
