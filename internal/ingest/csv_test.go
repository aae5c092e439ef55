package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
)

const vendorSample = `20240305 093000;4100.25;4101.50;4099.75;4100.00;1250
20240305 093100;4100.00;4100.75;4099.50;4100.50;980
20240306 093000;4102.00;4103.25;4101.00;4102.75;1430
`

func TestReadFuturesCSV(t *testing.T) {
	bars, err := ReadFuturesCSV(strings.NewReader(vendorSample), "ES")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	first := bars[0]
	assert.Equal(t, "ES", first.Symbol)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC), first.Timestamp)
	assert.InDelta(t, 4100.25, first.Open, 1e-9)
	assert.InDelta(t, 4101.50, first.High, 1e-9)
	assert.InDelta(t, 4099.75, first.Low, 1e-9)
	assert.InDelta(t, 4100.00, first.Close, 1e-9)
	assert.InDelta(t, 1250, first.Volume, 1e-9)
}

func TestReadFuturesCSVBadRows(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad timestamp", "2024-03-05 09:30;1;2;0.5;1.5;10\n"},
		{"bad price", "20240305 093000;abc;2;0.5;1.5;10\n"},
		{"missing field", "20240305 093000;1;2;0.5;1.5\n"},
		{"inverted extent", "20240305 093000;1;0.5;2;1.5;10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFuturesCSV(strings.NewReader(tt.data), "ES")
			assert.Error(t, err)
		})
	}
}

func TestReadFuturesCSVEmpty(t *testing.T) {
	bars, err := ReadFuturesCSV(strings.NewReader(""), "ES")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

const tradingViewSample = `time,open,high,low,close,volume
1709631000,4100.25,4101.50,4099.75,4100.00,1250
1709631060,4100.00,4100.75,4099.50,4100.50,980
`

func TestReadTradingViewCSV(t *testing.T) {
	bars, err := ReadTradingViewCSV(strings.NewReader(tradingViewSample), "ES")
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, time.Unix(1709631000, 0).UTC(), first.Timestamp)
	assert.InDelta(t, 4101.50, first.High, 1e-9)
	assert.InDelta(t, 1250, first.Volume, 1e-9)
}

func TestReadTradingViewCSVMissingColumn(t *testing.T) {
	data := "time,open,high,low\n1709631000,1,2,0.5\n"
	_, err := ReadTradingViewCSV(strings.NewReader(data), "ES")
	assert.ErrorContains(t, err, "missing column")
}

func TestReadTradingViewCSVNoVolume(t *testing.T) {
	data := "time,open,high,low,close\n1709631000,1,2,0.5,1.5\n"
	bars, err := ReadTradingViewCSV(strings.NewReader(data), "ES")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Zero(t, bars[0].Volume)
}

func minuteBars(day time.Time, n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Symbol:    "ES",
			Timestamp: day.Add(time.Duration(i) * time.Minute),
			Open:      100, High: 101, Low: 99, Close: 100.5, Volume: 10,
		}
	}
	return bars
}

func TestFilterCompleteSessions(t *testing.T) {
	full := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	partial := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	var bars []models.Bar
	bars = append(bars, minuteBars(full, 40)...)
	bars = append(bars, minuteBars(partial, 10)...)

	kept := FilterCompleteSessions(bars, 30)
	require.Len(t, kept, 40)
	for _, b := range kept {
		assert.Equal(t, "2024-03-05", b.Session())
	}

	// A day with exactly minRows rows is still partial.
	assert.Empty(t, FilterCompleteSessions(minuteBars(partial, 30), 30))
}

func TestSplitBySession(t *testing.T) {
	day1 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	var bars []models.Bar
	bars = append(bars, minuteBars(day1, 3)...)
	bars = append(bars, minuteBars(day2, 2)...)

	sessions, order := SplitBySession(bars)
	require.Equal(t, []string{"2024-03-05", "2024-03-06"}, order)
	assert.Len(t, sessions["2024-03-05"], 3)
	assert.Len(t, sessions["2024-03-06"], 2)
}
