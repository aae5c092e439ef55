package di

import (
	"context"
	"fmt"
	"time"

	segkafka "github.com/segmentio/kafka-go"

	"BarScope/internal/domain/repository"
	mid "BarScope/internal/middleware"
	internalrepo "BarScope/internal/repository"
	"BarScope/internal/service/stream"
	"BarScope/internal/usecase"
	pkgch "BarScope/pkg/clickhouse"
	"BarScope/pkg/config"
	pkgkafka "BarScope/pkg/kafka"
	"BarScope/pkg/metrics"
	"BarScope/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the dimensional bar store and ensures its schema.
func ProvideBarStore(chClient *pkgch.Client) (*internalrepo.ClickHouseBarStore, error) {
	store := internalrepo.NewClickHouseBarStore(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = chClient.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideBarStorage exposes the concrete store through the domain interface.
func ProvideBarStorage(store *internalrepo.ClickHouseBarStore) repository.BarStore {
	return store
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarPublisher creates the Kafka publisher repository.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(store repository.BarStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideBarStream creates the WebSocket bar stream, or nil when disabled.
func ProvideBarStream(cfg *config.Config) repository.BarStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		nil,
	)
}

// ProvideBarProcessor creates the bar processor use case.
func ProvideBarProcessor(
	pub repository.Publisher,
	store repository.BarStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideBarCollector creates the bar collector use case, or nil when the
// live stream is disabled.
func ProvideBarCollector(
	barStream repository.BarStream,
	processor *usecase.BarProcessor,
	metrics repository.Metrics,
) *usecase.BarCollector {
	if barStream == nil {
		return nil
	}
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewBarCollector(barStream, processor, metrics, pipe)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	barStore *internalrepo.ClickHouseBarStore,
	producer *pkgkafka.Producer,
	m repository.Metrics,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewHookChain(metricsHook{m: m}))
	}
	app := server.New(cfg, collector, consumer, kh, chClient, barStore)
	if collector != nil {
		app.BarProc = collector.Processor()
	}
	// Aggregated error logs are shipped over the same broker.
	if producer != nil && len(cfg.Kafka.Brokers) > 0 {
		app.LogShipper = producer
	}
	return app
}

// metricsHook counts consumer-level failures, including DLQ routing.
type metricsHook struct {
	pkgkafka.NoopHook
	m repository.Metrics
}

func (h metricsHook) OnError(ctx context.Context, topic string, km segkafka.Message, data []byte, err error) {
	if h.m != nil {
		h.m.RecordError("kafka_consume")
	}
}
