package repository

import (
	"context"
	"time"

	"BarScope/internal/domain/models"
)

// BarStream is a live source of normalized bars.
type BarStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Bar, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher forwards normalized bars to a message broker.
type Publisher interface {
	Publish(ctx context.Context, b *models.Bar) error
	PublishBatch(ctx context.Context, bars []*models.Bar) error
	Close() error
}

// BarStore persists normalized bars in the dimensional schema.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, b *models.Bar) error
	StoreBatch(ctx context.Context, bars []*models.Bar) error
	Health(ctx context.Context) error // ping
	Close() error
}

// BarReader provides read access to stored bars for the analytics usecases.
type BarReader interface {
	// SessionBars returns the bars of one trading session in ascending
	// timestamp order.
	SessionBars(ctx context.Context, symbol string, day time.Time) ([]models.Bar, error)
	// Bars returns bars in [from, to) in ascending timestamp order.
	Bars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
}

type Metrics interface {
	RecordBarStored(backend, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
