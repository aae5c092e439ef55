package volatility

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"BarScope/internal/domain/models"
)

// RangeRecord is the high-low extent of one trading session.
type RangeRecord struct {
	Date  string  `json:"date"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Range float64 `json:"range"`
}

// WindowSummary describes the daily-range distribution over the most recent
// N sessions. LatestPercentile places the newest session's range inside that
// distribution, on a 0..100 scale.
type WindowSummary struct {
	Window           int     `json:"window"`
	Sessions         int     `json:"sessions"`
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"std_dev"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	LatestPercentile float64 `json:"latest_percentile"`
}

// DefaultWindows are the session lookbacks reported by the volatility
// endpoint, roughly one month through one year of trading days.
var DefaultWindows = []int{20, 60, 120, 240}

// DailyRanges collapses an intraday bar sequence into per-session range
// records, newest session first.
func DailyRanges(bars []models.Bar) []RangeRecord {
	byDay := make(map[string]*RangeRecord)
	var order []string
	for _, b := range bars {
		day := b.Session()
		rec, seen := byDay[day]
		if !seen {
			order = append(order, day)
			byDay[day] = &RangeRecord{Date: day, High: b.High, Low: b.Low}
			continue
		}
		if b.High > rec.High {
			rec.High = b.High
		}
		if b.Low < rec.Low {
			rec.Low = b.Low
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(order)))
	records := make([]RangeRecord, 0, len(order))
	for _, day := range order {
		rec := byDay[day]
		rec.Range = rec.High - rec.Low
		records = append(records, *rec)
	}
	return records
}

// Summaries computes one distribution summary per requested window over
// newest-first range records. Windows wider than the available history fall
// back to the full history.
func Summaries(records []RangeRecord, windows []int) []WindowSummary {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	summaries := make([]WindowSummary, 0, len(windows))
	if len(records) == 0 {
		return summaries
	}

	latest := records[0].Range
	for _, window := range windows {
		n := window
		if n > len(records) {
			n = len(records)
		}
		ranges := make([]float64, n)
		for i := 0; i < n; i++ {
			ranges[i] = records[i].Range
		}
		summaries = append(summaries, WindowSummary{
			Window:           window,
			Sessions:         n,
			Mean:             stat.Mean(ranges, nil),
			StdDev:           stat.PopStdDev(ranges, nil),
			Min:              floats.Min(ranges),
			Max:              floats.Max(ranges),
			LatestPercentile: percentileOf(latest, ranges),
		})
	}
	return summaries
}

// percentileOf returns the share of values at or below x, scaled to 0..100.
func percentileOf(x float64, values []float64) float64 {
	below := 0
	for _, v := range values {
		if v <= x {
			below++
		}
	}
	return 100 * float64(below) / float64(len(values))
}
