package models

import (
	"fmt"
	"math"
	"time"
)

// Bar is one normalized OHLCV record for a futures contract. Bars are
// immutable once constructed; all profile and regime computations consume
// them read-only.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks the per-bar schema invariants: finite non-negative prices,
// High >= Low, High >= max(Open, Close), Low <= min(Open, Close), and a
// non-negative volume.
func (b Bar) Validate() error {
	if b.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if b.Timestamp.IsZero() {
		return fmt.Errorf("timestamp zero")
	}
	for name, p := range map[string]float64{
		"open": b.Open, "high": b.High, "low": b.Low, "close": b.Close,
	} {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%s not a finite non-negative price: %v", name, p)
		}
	}
	if b.High < b.Low {
		return fmt.Errorf("high %v below low %v", b.High, b.Low)
	}
	if b.High < b.Open || b.High < b.Close {
		return fmt.Errorf("high %v below open/close", b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("low %v above open/close", b.Low)
	}
	if math.IsNaN(b.Volume) || b.Volume < 0 {
		return fmt.Errorf("volume negative: %v", b.Volume)
	}
	return nil
}

// Session returns the calendar-day key this bar belongs to.
func (b Bar) Session() string {
	return b.Timestamp.Format("2006-01-02")
}

// Range returns the bar's high-low span.
func (b Bar) Range() float64 {
	return b.High - b.Low
}
