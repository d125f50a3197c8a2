// Package kafka publishes node events to a Kafka topic with
// segmentio/kafka-go. Messages are keyed by node id so that every event for
// one node lands on the same partition in order.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/papercomputeco/specgraph/pkg/eventstream"
	specgraphlogger "github.com/papercomputeco/specgraph/pkg/logger"
)

// DefaultWriteTimeout bounds a single publish.
const DefaultWriteTimeout = 10 * time.Second

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config configures the Kafka publisher.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// Publisher implements eventstream.Publisher over a Kafka writer.
type Publisher struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher creates a publisher writing to cfg.Topic on cfg.Brokers.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return NewPublisherWithWriter(w, cfg), nil
}

// NewPublisherWithWriter wraps an existing writer. Brokers and Topic in cfg
// are ignored.
func NewPublisherWithWriter(w MessageWriter, cfg Config) *Publisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = specgraphlogger.Nop()
	}

	return &Publisher{
		writer:  w,
		timeout: timeout,
		logger:  logger,
	}
}

// PublishNodeChanged writes event as a JSON message keyed by node id.
func (p *Publisher) PublishNodeChanged(ctx context.Context, event *eventstream.NodeChangedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding node event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Node.ID),
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing node event %s: %w", event.EventID, err)
	}

	p.logger.Debug("published node event",
		"event_id", event.EventID,
		"node", event.Node.ID,
		"action", event.Action,
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
