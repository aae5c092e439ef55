package repository

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"BarScope/internal/domain/models"
	"BarScope/internal/domain/repository"
	pkgch "BarScope/pkg/clickhouse"
	applogger "BarScope/pkg/logger"
)

// schemaStatements create the dimensional bar schema. ReplacingMergeTree
// absorbs replayed rows on merge; the in-process dedup set below keeps the
// hot path from re-inserting them in the first place.
var schemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS barscope`,
	`CREATE TABLE IF NOT EXISTS barscope.instrument_dim (
        instrument_id UInt64,
        symbol        String
    ) ENGINE = ReplacingMergeTree
    ORDER BY instrument_id`,
	`CREATE TABLE IF NOT EXISTS barscope.datetime_dim (
        datetime_id Int64,
        ts          DateTime('UTC'),
        session     Date
    ) ENGINE = ReplacingMergeTree
    ORDER BY datetime_id`,
	`CREATE TABLE IF NOT EXISTS barscope.bar_fact (
        instrument_id UInt64,
        datetime_id   Int64,
        open          Float64,
        high          Float64,
        low           Float64,
        close         Float64,
        volume        Float64
    ) ENGINE = ReplacingMergeTree
    ORDER BY (instrument_id, datetime_id)`,
}

type barKey struct {
	instrument uint64
	datetime   int64
}

// ClickHouseBarStore implements BarStore and BarReader over the dimensional
// schema above.
type ClickHouseBarStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger

	mu          sync.Mutex
	seenBars    map[barKey]struct{}
	seenSymbols map[uint64]struct{}
}

// NewClickHouseBarStore creates the bar store over an established client.
func NewClickHouseBarStore(ch *pkgch.Client) *ClickHouseBarStore {
	return &ClickHouseBarStore{
		client:      ch,
		db:          ch.DB(),
		seenBars:    make(map[barKey]struct{}),
		seenSymbols: make(map[uint64]struct{}),
	}
}

// SetLogger injects a structured logger.
func (s *ClickHouseBarStore) SetLogger(l *applogger.Logger) { s.l = l }

// InstrumentID derives the stable dimension key for a symbol via FNV-1a.
func InstrumentID(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, schemaStatements)
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return s.client.Close()
}

func (s *ClickHouseBarStore) Store(ctx context.Context, b *models.Bar) error {
	return s.StoreBatch(ctx, []*models.Bar{b})
}

// StoreBatch inserts dimension rows for unseen symbols and timestamps, then
// the fact rows, using multi-row VALUES inserts chunked to bound statement
// size. Bars already seen by this process are dropped before insert.
func (s *ClickHouseBarStore) StoreBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()

	fresh, newSymbols := s.claimUnseen(bars)
	if len(fresh) == 0 {
		return nil
	}

	if err := s.insertInstruments(ctx, newSymbols); err != nil {
		return err
	}
	if err := s.insertDatetimes(ctx, fresh); err != nil {
		return err
	}

	const chunkSize = 2000
	for begin := 0; begin < len(fresh); begin += chunkSize {
		end := begin + chunkSize
		if end > len(fresh) {
			end = len(fresh)
		}
		chunk := fresh[begin:end]

		values := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*7)
		for _, b := range chunk {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				InstrumentID(b.Symbol),
				b.Timestamp.Unix(),
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
			)
		}
		q := "INSERT INTO barscope.bar_fact (instrument_id, datetime_id, open, high, low, close, volume) VALUES " +
			strings.Join(values, ", ")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse bar_fact insert error",
					applogger.Int("rows", len(chunk)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert bar_fact: %w", err)
		}
	}

	if s.l != nil {
		s.l.Debug("clickhouse bar batch stored",
			applogger.Int("rows", len(fresh)),
			applogger.Int("skipped", len(bars)-len(fresh)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// claimUnseen filters out bars already stored by this process and marks the
// rest as seen, returning them plus any symbols new to the process.
func (s *ClickHouseBarStore) claimUnseen(bars []*models.Bar) ([]*models.Bar, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]*models.Bar, 0, len(bars))
	var newSymbols []string
	for _, b := range bars {
		if b == nil || b.Symbol == "" || b.Timestamp.IsZero() {
			continue
		}
		id := InstrumentID(b.Symbol)
		key := barKey{instrument: id, datetime: b.Timestamp.Unix()}
		if _, dup := s.seenBars[key]; dup {
			continue
		}
		s.seenBars[key] = struct{}{}
		if _, known := s.seenSymbols[id]; !known {
			s.seenSymbols[id] = struct{}{}
			newSymbols = append(newSymbols, b.Symbol)
		}
		fresh = append(fresh, b)
	}
	return fresh, newSymbols
}

func (s *ClickHouseBarStore) insertInstruments(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	values := make([]string, 0, len(symbols))
	args := make([]interface{}, 0, len(symbols)*2)
	for _, sym := range symbols {
		values = append(values, "(?, ?)")
		args = append(args, InstrumentID(sym), sym)
	}
	q := "INSERT INTO barscope.instrument_dim (instrument_id, symbol) VALUES " + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert instrument_dim: %w", err)
	}
	return nil
}

func (s *ClickHouseBarStore) insertDatetimes(ctx context.Context, bars []*models.Bar) error {
	// One timestamp can arrive for several symbols within a batch.
	unique := make(map[int64]time.Time, len(bars))
	for _, b := range bars {
		unique[b.Timestamp.Unix()] = b.Timestamp.UTC()
	}

	values := make([]string, 0, len(unique))
	args := make([]interface{}, 0, len(unique)*3)
	for id, ts := range unique {
		values = append(values, "(?, ?, ?)")
		args = append(args, id, ts, ts.Format("2006-01-02"))
	}
	q := "INSERT INTO barscope.datetime_dim (datetime_id, ts, session) VALUES " + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert datetime_dim: %w", err)
	}
	return nil
}

// SessionBars loads every bar of one calendar day for a symbol, ascending.
func (s *ClickHouseBarStore) SessionBars(ctx context.Context, symbol string, day time.Time) ([]models.Bar, error) {
	const q = `
        SELECT d.ts, f.open, f.high, f.low, f.close, f.volume
        FROM barscope.bar_fact AS f
        INNER JOIN barscope.datetime_dim AS d ON d.datetime_id = f.datetime_id
        WHERE f.instrument_id = ? AND d.session = ?
        ORDER BY f.datetime_id ASC
    `
	return s.queryBars(ctx, symbol, q, InstrumentID(symbol), day.Format("2006-01-02"))
}

// Bars loads the bars of a symbol over [from, to), ascending.
func (s *ClickHouseBarStore) Bars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	const q = `
        SELECT d.ts, f.open, f.high, f.low, f.close, f.volume
        FROM barscope.bar_fact AS f
        INNER JOIN barscope.datetime_dim AS d ON d.datetime_id = f.datetime_id
        WHERE f.instrument_id = ? AND f.datetime_id >= ? AND f.datetime_id < ?
        ORDER BY f.datetime_id ASC
    `
	return s.queryBars(ctx, symbol, q, InstrumentID(symbol), from.Unix(), to.Unix())
}

func (s *ClickHouseBarStore) queryBars(ctx context.Context, symbol, q string, args ...interface{}) ([]models.Bar, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse bar query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		b := models.Bar{Symbol: symbol}
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("clickhouse bars loaded",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ repository.BarStore = (*ClickHouseBarStore)(nil)
var _ repository.BarReader = (*ClickHouseBarStore)(nil)
