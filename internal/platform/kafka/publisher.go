package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/metrics"
)

const (
	EventOrderCreated          = "order.created"
	EventOrderConfirmed        = "order.confirmed"
	EventOrderCancelled        = "order.cancelled"
	EventSubscriptionVerified  = "subscription.verified"
	EventConsultationRequested = "consultation.requested"
)

// Event is the envelope written to the broker. Payload is any JSON-encodable
// value describing the entity.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher sends domain events after their transaction commits. Failures are
// logged and never returned to callers.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
}

type SaramaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *zap.SugaredLogger
	metrics     *metrics.Registry
}

// NewSaramaPublisher wraps an existing producer.
func NewSaramaPublisher(producer sarama.SyncProducer, topicPrefix string, l *zap.SugaredLogger, m *metrics.Registry) *SaramaPublisher {
	return &SaramaPublisher{producer: producer, topicPrefix: topicPrefix, logger: l, metrics: m}
}

func (p *SaramaPublisher) topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

func (p *SaramaPublisher) Publish(ctx context.Context, eventType, key string, payload any) {
	lg := logctx.FromCtx(ctx, p.logger)
	topic := p.topic(eventType)
	err := p.send(topic, Event{Type: eventType, Key: key, OccurredAt: time.Now(), Payload: payload})
	p.metrics.EventPublished(topic, err)
	if err != nil {
		lg.Errorw("publish event failed", "topic", topic, "key", key, "err", err)
	}
}

func (p *SaramaPublisher) send(topic string, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(ev.Key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
		Timestamp: ev.OccurredAt,
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	p.logger.Debugw("event published", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

type noopPublisher struct {
	logger *zap.SugaredLogger
}

func (n noopPublisher) Publish(ctx context.Context, eventType, key string, _ any) {
	logctx.FromCtx(ctx, n.logger).Debugw("event dropped, no brokers configured", "type", eventType, "key", key)
}

// NoopPublisher discards every event.
func NoopPublisher(l *zap.SugaredLogger) Publisher {
	return noopPublisher{logger: l}
}

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Retry.Max = 3
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.Compression = sarama.CompressionSnappy
	return c
}

// New builds a Kafka-backed publisher when brokers are configured and a no-op
// one otherwise.
func New(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *config.Config, m *metrics.Registry) (Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		l.Infow("kafka brokers not configured, events disabled")
		return NoopPublisher(l), nil
	}
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			l.Infow("closing kafka producer")
			return producer.Close()
		},
	})
	return NewSaramaPublisher(producer, cfg.Kafka.TopicPrefix, l, m), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
