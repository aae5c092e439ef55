package usecase

import (
	"context"
	"fmt"
	"time"

	"BarScope/internal/domain/models"
	drepo "BarScope/internal/domain/repository"
)

// BarProcessor routes normalized bars to the configured backend.
type BarProcessor struct {
	pub     drepo.Publisher
	store   drepo.BarStore
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewBarProcessor creates a new BarProcessor instance.
func NewBarProcessor(
	pub drepo.Publisher,
	store drepo.BarStore,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *BarProcessor {
	return &BarProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single bar to the configured backend.
func (p *BarProcessor) Process(ctx context.Context, b *models.Bar) error {
	if b == nil {
		return fmt.Errorf("bar is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, b)
	case "clickhouse":
		err = p.store.Store(ctx, b)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process bar: %w", err)
	}

	p.metrics.RecordBarStored(p.backend, b.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple bars in a batch.
func (p *BarProcessor) ProcessBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, bars)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, bars)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, b := range bars {
		p.metrics.RecordBarStored(p.backend, b.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *BarProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
