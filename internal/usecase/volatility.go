package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "BarScope/internal/domain/repository"
	"BarScope/internal/volatility"
)

// VolatilityUseCase summarizes daily range distributions over the recent
// history of a symbol.
type VolatilityUseCase struct {
	reader  drepo.BarReader
	metrics drepo.Metrics
	now     func() time.Time
}

func NewVolatilityUseCase(reader drepo.BarReader, metrics drepo.Metrics) *VolatilityUseCase {
	return &VolatilityUseCase{reader: reader, metrics: metrics, now: time.Now}
}

type GetVolatilityParams struct {
	Symbol   string
	Sessions int       // how many recent sessions to keep
	AsOf     time.Time // window anchor; zero means now
}

type VolatilityResult struct {
	Symbol    string                     `json:"symbol"`
	Sessions  int                        `json:"sessions"`
	Latest    *volatility.RangeRecord    `json:"latest,omitempty"`
	Summaries []volatility.WindowSummary `json:"summaries"`
}

func (uc *VolatilityUseCase) GetVolatility(ctx context.Context, p GetVolatilityParams) (*VolatilityResult, error) {
	if p.Sessions <= 0 {
		p.Sessions = volatility.DefaultWindows[len(volatility.DefaultWindows)-1]
	}

	began := time.Now()
	anchor := p.AsOf
	if anchor.IsZero() {
		anchor = uc.now()
	}
	// Calendar lookback padded for weekends and holidays.
	from := anchor.AddDate(0, 0, -2*p.Sessions)
	bars, err := uc.reader.Bars(ctx, p.Symbol, from, anchor)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	records := volatility.DailyRanges(bars)
	if len(records) > p.Sessions {
		records = records[:p.Sessions]
	}

	res := &VolatilityResult{
		Symbol:    p.Symbol,
		Sessions:  len(records),
		Summaries: volatility.Summaries(records, nil),
	}
	if len(records) > 0 {
		res.Latest = &records[0]
	}

	if uc.metrics != nil {
		uc.metrics.RecordLatency("volatility_summarize", time.Since(began).Seconds())
	}
	return res, nil
}
