package volatility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
)

func sessionBars(day time.Time, extents [][2]float64) []models.Bar {
	bars := make([]models.Bar, len(extents))
	for i, e := range extents {
		bars[i] = models.Bar{
			Symbol:    "ES",
			Timestamp: day.Add(time.Duration(i) * time.Minute),
			Open:      e[0], Low: e[0], High: e[1], Close: e[1],
		}
	}
	return bars
}

func TestDailyRanges(t *testing.T) {
	day1 := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 4, 9, 30, 0, 0, time.UTC)

	var bars []models.Bar
	bars = append(bars, sessionBars(day1, [][2]float64{{100, 101}, {99, 100.5}, {100.2, 102}})...)
	bars = append(bars, sessionBars(day2, [][2]float64{{101, 103}, {102, 104}})...)

	records := DailyRanges(bars)
	require.Len(t, records, 2)

	// Newest session first.
	assert.Equal(t, "2024-06-04", records[0].Date)
	assert.InDelta(t, 104.0, records[0].High, 1e-9)
	assert.InDelta(t, 101.0, records[0].Low, 1e-9)
	assert.InDelta(t, 3.0, records[0].Range, 1e-9)

	assert.Equal(t, "2024-06-03", records[1].Date)
	assert.InDelta(t, 3.0, records[1].Range, 1e-9)
}

func TestDailyRangesEmpty(t *testing.T) {
	assert.Empty(t, DailyRanges(nil))
}

func TestSummariesWindows(t *testing.T) {
	records := make([]RangeRecord, 30)
	for i := range records {
		// Newest first; ranges 30, 29, ..., 1.
		records[i] = RangeRecord{Date: "2024-06-01", Range: float64(30 - i)}
	}

	summaries := Summaries(records, []int{5, 20, 240})
	require.Len(t, summaries, 3)

	first := summaries[0]
	assert.Equal(t, 5, first.Window)
	assert.Equal(t, 5, first.Sessions)
	assert.InDelta(t, 28.0, first.Mean, 1e-9) // mean of 30..26
	assert.InDelta(t, 26.0, first.Min, 1e-9)
	assert.InDelta(t, 30.0, first.Max, 1e-9)
	// Latest range (30) is the largest in every window.
	assert.InDelta(t, 100.0, first.LatestPercentile, 1e-9)

	// A window wider than the history uses the full history.
	last := summaries[2]
	assert.Equal(t, 240, last.Window)
	assert.Equal(t, 30, last.Sessions)
	assert.InDelta(t, 1.0, last.Min, 1e-9)
}

func TestSummariesPercentileMidRange(t *testing.T) {
	records := []RangeRecord{
		{Range: 2.0}, // latest
		{Range: 1.0},
		{Range: 3.0},
		{Range: 4.0},
	}
	summaries := Summaries(records, []int{4})
	require.Len(t, summaries, 1)
	assert.InDelta(t, 50.0, summaries[0].LatestPercentile, 1e-9)
}

func TestSummariesDefaultWindows(t *testing.T) {
	records := []RangeRecord{{Range: 1.5}}
	summaries := Summaries(records, nil)
	require.Len(t, summaries, len(DefaultWindows))
	for i, s := range summaries {
		assert.Equal(t, DefaultWindows[i], s.Window)
		assert.Equal(t, 1, s.Sessions)
	}
}

func TestSummariesEmptyHistory(t *testing.T) {
	assert.Empty(t, Summaries(nil, []int{20}))
}
