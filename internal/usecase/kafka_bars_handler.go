package usecase

import (
	"context"
	"encoding/json"
	"time"

	"BarScope/internal/domain/models"
	domrepo "BarScope/internal/domain/repository"
	pkgkafka "BarScope/pkg/kafka"
)

// KafkaBarsHandler consumes bar messages from Kafka and writes them to the
// bar store.
type KafkaBarsHandler struct {
	topic   string
	store   domrepo.BarStore
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, store domrepo.BarStore, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, o, h, l, c, v}
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from bar time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	bar := &models.Bar{
		Symbol:    m.Symbol,
		Timestamp: time.Unix(m.T, 0).UTC(),
		Open:      m.O,
		High:      m.H,
		Low:       m.L,
		Close:     m.C,
		Volume:    m.V,
	}
	if err := bar.Validate(); err != nil {
		h.metrics.RecordError("consumer_validate")
		return err
	}

	start := time.Now()
	err := h.store.Store(ctx, bar)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBarStored("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
