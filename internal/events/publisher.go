package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Publisher emits domain events. Failures never roll back the action that
// produced the event; callers log and move on.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(brokers []string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	})
}

func newKafkaPublisher(w messageWriter) *kafkaPublisher {
	return &kafkaPublisher{writer: w, now: time.Now}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(Envelope{
		Type:       topic,
		OccurredAt: p.now().UTC(),
		RequestID:  logger.RequestIDFrom(ctx),
		Data:       payload,
	})
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "failed").Inc()
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}

	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	logger.FromCtx(ctx).Debug("event dropped, no brokers configured",
		zap.String("topic", topic),
		zap.String("key", key),
	)
	return nil
}

func (NopPublisher) Close() error { return nil }

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, topic, key string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, payload); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
