package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

var (
	// ErrProducerClosed is returned by Publish after Close.
	ErrProducerClosed = apperrors.New(apperrors.ErrCodeInternal, "audit producer closed")
)

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// AuditProducer publishes classification audit events to a Kafka topic.
// Publishing is best-effort from the caller's perspective: a classification
// is never failed because its audit event could not be delivered.
type AuditProducer struct {
	writer writerInterface
	topic  string
	logger logging.Logger
	closed atomic.Bool

	published atomic.Int64
	failed    atomic.Int64
}

// NewAuditProducer builds a producer from config.
func NewAuditProducer(cfg config.KafkaConfig, logger logging.Logger) *AuditProducer {
	if logger == nil {
		logger = logging.NewNop()
	}
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  cfg.ProducerRetries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: 100 * time.Millisecond,
		Async:        cfg.Async,
		RequiredAcks: kafkago.RequireOne,
	}
	return &AuditProducer{
		writer: writer,
		topic:  cfg.Topic,
		logger: logger,
	}
}

// Publish serializes an audit event and writes it keyed by canonical form so
// all events for one structure land in the same partition.
func (p *AuditProducer) Publish(ctx context.Context, event *AuditEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "audit event serialization failed")
	}

	msg := kafkago.Message{
		Key:   []byte(event.Canonical),
		Value: data,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		p.logger.Warn("audit event publish failed",
			logging.String("event_id", event.EventID),
			logging.String("topic", p.topic),
			logging.Err(err),
		)
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "audit event publish failed")
	}

	p.published.Add(1)
	return nil
}

// Published returns the number of successfully written events.
func (p *AuditProducer) Published() int64 {
	return p.published.Load()
}

// Failed returns the number of events that could not be written.
func (p *AuditProducer) Failed() int64 {
	return p.failed.Load()
}

// Close flushes and closes the underlying writer. Publish calls after Close
// return ErrProducerClosed.
func (p *AuditProducer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
