package repository

import (
	"context"

	"BarScope/internal/domain/models"
	"BarScope/internal/domain/repository"
	pkgkafka "BarScope/pkg/kafka"
)

// KafkaPublisher forwards bars to a Kafka topic, keyed by symbol so one
// instrument always lands on one partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a bar publisher over an established producer.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func barPayload(b *models.Bar) map[string]interface{} {
	return map[string]interface{}{
		"symbol": b.Symbol,
		"t":      b.Timestamp.Unix(),
		"o":      b.Open,
		"h":      b.High,
		"l":      b.Low,
		"c":      b.Close,
		"v":      b.Volume,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, b *models.Bar) error {
	return p.producer.Publish(ctx, p.topic, []byte(b.Symbol), barPayload(b))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{Key: []byte(b.Symbol), Value: barPayload(b)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
