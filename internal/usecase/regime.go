package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "BarScope/internal/domain/repository"
	"BarScope/internal/regime"
	"BarScope/pkg/util"
)

// RegimeUseCase classifies market regimes per trading day over a stored bar
// window.
type RegimeUseCase struct {
	reader  drepo.BarReader
	metrics drepo.Metrics
}

func NewRegimeUseCase(reader drepo.BarReader, metrics drepo.Metrics) *RegimeUseCase {
	return &RegimeUseCase{reader: reader, metrics: metrics}
}

type GetRegimeParams struct {
	Symbol string
	From   string // 2006-01-02
	To     string // 2006-01-02, inclusive
	MaxLag int
}

type RegimeResult struct {
	Symbol string `json:"symbol"`
	From   string `json:"from"`
	To     string `json:"to"`
	regime.Analysis
}

func (uc *RegimeUseCase) GetRegime(ctx context.Context, p GetRegimeParams) (*RegimeResult, error) {
	from, err := time.Parse("2006-01-02", p.From)
	if err != nil {
		return nil, fmt.Errorf("bad from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", p.To)
	if err != nil {
		return nil, fmt.Errorf("bad to date: %w", err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("from must be <= to")
	}

	start := time.Now()
	// to is inclusive; the reader works on [from, to).
	_, end := util.DayBounds(to)
	bars, err := uc.reader.Bars(ctx, p.Symbol, from, end)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	cfg := regime.DefaultConfig()
	if p.MaxLag > 0 {
		cfg.MaxLag = p.MaxLag
	}
	analysis := regime.AnalyzeTrends(bars, cfg)

	if uc.metrics != nil {
		uc.metrics.RecordLatency("regime_analyze", time.Since(start).Seconds())
	}
	return &RegimeResult{Symbol: p.Symbol, From: p.From, To: p.To, Analysis: analysis}, nil
}
