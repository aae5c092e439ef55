package regime

import (
	"BarScope/internal/domain/models"
)

// Record is the per-day outcome of the regime analysis.
type Record struct {
	Date  string  `json:"date"`
	Hurst float64 `json:"hurst"`
	Label Label   `json:"label"`
}

// Analysis aggregates the per-day records and the label tally for a
// multi-day window.
type Analysis struct {
	Records []Record      `json:"records"`
	Counts  map[Label]int `json:"counts"`
	Skipped int           `json:"skipped"`
}

// AnalyzeTrends partitions a multi-day bar sequence into calendar-day
// closing-price sub-series, computes the Hurst exponent per day, and
// classifies each computable day. The first calendar day is excluded since
// it may be a partial session; days too short for the lag cap are counted
// as skipped, not failed.
func AnalyzeTrends(bars []models.Bar, cfg Config) Analysis {
	cfg = cfg.normalized()

	days, order := splitByDay(bars)
	analysis := Analysis{
		Counts: map[Label]int{MeanReverting: 0, RandomWalk: 0, Trending: 0},
	}
	if len(order) == 0 {
		return analysis
	}

	for _, day := range order[1:] {
		closes := days[day]
		hurst, ok := Exponent(closes, cfg.MaxLag)
		if !ok {
			analysis.Skipped++
			continue
		}
		label := cfg.Classify(hurst)
		analysis.Records = append(analysis.Records, Record{Date: day, Hurst: hurst, Label: label})
		analysis.Counts[label]++
	}
	return analysis
}

// splitByDay groups closing prices by calendar day, preserving the order in
// which days first appear.
func splitByDay(bars []models.Bar) (map[string][]float64, []string) {
	days := make(map[string][]float64)
	var order []string
	for _, b := range bars {
		day := b.Session()
		if _, seen := days[day]; !seen {
			order = append(order, day)
		}
		days[day] = append(days[day], b.Close)
	}
	return days, order
}
