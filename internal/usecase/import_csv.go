package usecase

import (
	"context"
	"fmt"
	"io"
	"os"

	"BarScope/internal/domain/models"
	drepo "BarScope/internal/domain/repository"
	"BarScope/internal/ingest"
	applogger "BarScope/pkg/logger"
)

// ImportCSVUseCase loads historical bar exports into the store, one session
// at a time so a failed import can be retried per day.
type ImportCSVUseCase struct {
	store drepo.BarStore
	l     *applogger.Logger
}

func NewImportCSVUseCase(store drepo.BarStore, l *applogger.Logger) *ImportCSVUseCase {
	return &ImportCSVUseCase{store: store, l: l}
}

type ImportCSVParams struct {
	Path           string
	Symbol         string
	Format         string // "vendor" or "tradingview"
	MinSessionRows int    // <=0 selects the default
}

type ImportCSVResult struct {
	Rows     int `json:"rows"`
	Sessions int `json:"sessions"`
	Dropped  int `json:"dropped"` // bars removed with partial sessions
}

func (uc *ImportCSVUseCase) Import(ctx context.Context, p ImportCSVParams) (*ImportCSVResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	parsed, err := parseExport(f, p)
	if err != nil {
		return nil, err
	}

	kept := ingest.FilterCompleteSessions(parsed, p.MinSessionRows)
	sessions, order := ingest.SplitBySession(kept)

	for _, day := range order {
		batch := sessions[day]
		if err := uc.store.StoreBatch(ctx, barPointers(batch)); err != nil {
			return nil, fmt.Errorf("store session %s: %w", day, err)
		}
		if uc.l != nil {
			uc.l.Info("session imported",
				applogger.String("symbol", p.Symbol),
				applogger.String("session", day),
				applogger.Int("rows", len(batch)),
			)
		}
	}

	return &ImportCSVResult{
		Rows:     len(kept),
		Sessions: len(order),
		Dropped:  len(parsed) - len(kept),
	}, nil
}

func parseExport(r io.Reader, p ImportCSVParams) ([]models.Bar, error) {
	switch p.Format {
	case "", "vendor":
		return ingest.ReadFuturesCSV(r, p.Symbol)
	case "tradingview":
		return ingest.ReadTradingViewCSV(r, p.Symbol)
	default:
		return nil, fmt.Errorf("unknown import format: %s", p.Format)
	}
}

func barPointers(bars []models.Bar) []*models.Bar {
	out := make([]*models.Bar, len(bars))
	for i := range bars {
		out[i] = &bars[i]
	}
	return out
}
