package profile

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
)

func sessionBars(pairs [][2]float64, volume float64) []models.Bar {
	bars := make([]models.Bar, 0, len(pairs))
	base := time.Date(2024, 11, 4, 9, 30, 0, 0, time.UTC)
	for i, p := range pairs {
		bars = append(bars, models.Bar{
			Symbol:    "ES",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      p[0],
			High:      p[1],
			Low:       p[0],
			Close:     p[1],
			Volume:    volume,
		})
	}
	return bars
}

// The five-bar session used across the aggregate tests: overlapping ranges
// so the middle of the session carries the most mass.
var fiveBars = [][2]float64{
	{10.00, 10.02},
	{10.01, 10.03},
	{10.02, 10.04},
	{9.99, 10.01},
	{10.00, 10.02},
}

func TestBuildAggregateCountSession(t *testing.T) {
	prof, err := BuildAggregate(sessionBars(fiveBars, 0), 0.01, ModeCount)
	require.NoError(t, err)

	// Descending-price order with one bucket per 0.01 ladder rung.
	want := AggregateProfile{
		{Price: 10.03, Mass: 10},
		{Price: 10.02, Mass: 20},
		{Price: 10.01, Mass: 30},
		{Price: 10.00, Mass: 30},
		{Price: 9.99, Mass: 10},
	}
	assert.Equal(t, want, prof)

	va, err := prof.ValueArea(DefaultValueAreaFraction)
	require.NoError(t, err)
	// 10.00 and 10.01 tie at the maximum; the higher price wins.
	assert.Equal(t, 10.01, va.PoC)
	assert.Equal(t, 10.02, va.VAH)
	assert.Equal(t, 10.00, va.VAL)
	assert.LessOrEqual(t, va.VAL, va.PoC)
	assert.LessOrEqual(t, va.PoC, va.VAH)
}

func TestValueAreaCoversSeventyPercentMinimally(t *testing.T) {
	prof, err := BuildAggregate(sessionBars(fiveBars, 0), 0.01, ModeCount)
	require.NoError(t, err)

	total := prof.TotalMass()
	va, err := prof.ValueArea(DefaultValueAreaFraction)
	require.NoError(t, err)

	var selected []Level
	for _, lv := range prof {
		if lv.Price >= va.VAL && lv.Price <= va.VAH {
			selected = append(selected, lv)
		}
	}
	var cum, lowest float64
	lowest = math.Inf(1)
	for _, lv := range selected {
		cum += lv.Mass
		if lv.Mass < lowest {
			lowest = lv.Mass
		}
	}
	assert.GreaterOrEqual(t, cum, 0.70*total, "value area below 70%% of total mass")
	assert.Less(t, cum-lowest, 0.70*total, "value area not minimal")
}

func TestBuildAggregateVolumeConservation(t *testing.T) {
	// Bar ranges deliberately not multiples of the coarse granularity:
	// apportionment happens at the fine step, so no volume is lost or
	// double-counted by the re-bucketing.
	pairs := [][2]float64{
		{10.003, 10.027},
		{10.011, 10.052},
		{9.998, 10.014},
	}
	bars := sessionBars(pairs, 0)
	bars[0].Volume = 900
	bars[1].Volume = 350
	bars[2].Volume = 125

	for _, g := range []float64{0.01, 0.05} {
		prof, err := BuildAggregate(bars, g, ModeVolume)
		require.NoError(t, err)
		assert.InDelta(t, 900+350+125, prof.TotalMass(), 1e-9, "granularity %v", g)
	}
}

func TestBuildAggregateVolumeZeroSpanBar(t *testing.T) {
	// A bar whose low equals its high touches no fine level; its volume
	// contributes nothing rather than dividing by zero.
	bars := sessionBars([][2]float64{{10.00, 10.02}}, 500)
	flat := models.Bar{
		Symbol:    "ES",
		Timestamp: bars[0].Timestamp.Add(time.Minute),
		Open:      10.01, High: 10.01, Low: 10.01, Close: 10.01,
		Volume: 9999,
	}
	prof, err := BuildAggregate(append(bars, flat), 0.01, ModeVolume)
	require.NoError(t, err)
	assert.InDelta(t, 500, prof.TotalMass(), 1e-9)
}

func TestBuildAggregateErrors(t *testing.T) {
	bars := sessionBars(fiveBars, 10)

	_, err := BuildAggregate(nil, 0.01, ModeCount)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = BuildAggregate(bars, 0.013, ModeCount)
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	bad := make([]models.Bar, len(bars))
	copy(bad, bars)
	bad[2].High = bad[2].Low - 1
	_, err = BuildAggregate(bad, 0.01, ModeCount)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestValueAreaSingleBucket(t *testing.T) {
	prof := AggregateProfile{{Price: 10.00, Mass: 42}}
	va, err := prof.ValueArea(DefaultValueAreaFraction)
	require.NoError(t, err)
	assert.Equal(t, ValueArea{PoC: 10.00, VAH: 10.00, VAL: 10.00}, va)
}

func TestParseMode(t *testing.T) {
	if _, ok := ParseMode("count"); !ok {
		t.Fatal("count should parse")
	}
	if _, ok := ParseMode("volume"); !ok {
		t.Fatal("volume should parse")
	}
	if _, ok := ParseMode("vwap"); ok {
		t.Fatal("vwap should not parse")
	}
}
