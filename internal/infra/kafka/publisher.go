package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"review-engagement-service/internal/metrics"
)

// Config holds producer settings.
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	Source       string // service name stamped on every event
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements domain.EventPublisher on a kafka-go writer.
type Publisher struct {
	writer messageWriter
	source string
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher creates a synchronous publisher that waits for all replicas.
func NewPublisher(cfg Config, logger *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return newPublisher(w, cfg.Source, logger)
}

func newPublisher(w messageWriter, source string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: w,
		source: source,
		logger: logger.Named("events"),
		now:    time.Now,
	}
}

// Publish sends one event keyed by its aggregate, so events of the same
// review or report stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, eventType, aggregateType string, aggregateID int64, payload any) error {
	event, err := NewEvent(eventType, aggregateType, aggregateID, p.source, payload, p.now())
	if err != nil {
		return err
	}
	event.CorrelationID = CorrelationID(ctx)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(aggregateType + ":" + event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(p.source)},
		},
	}
	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "correlation_id", Value: []byte(event.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(eventType, metrics.ResultError).Inc()
		p.logger.Error("event publish failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)

		return fmt.Errorf("publishing %s: %w", eventType, err)
	}

	metrics.EventsPublished.WithLabelValues(eventType, metrics.ResultOK).Inc()
	p.logger.Debug("event published",
		zap.String("event_type", eventType),
		zap.String("event_id", event.EventID),
	)

	return nil
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, int64, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
