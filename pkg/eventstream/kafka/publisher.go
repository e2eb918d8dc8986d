// Package kafka publishes turn events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

const (
	// DefaultTopic is used when Config.Topic is empty.
	DefaultTopic = "chatproxy.turns"

	defaultWriteTimeout = 10 * time.Second
)

// ErrNoBrokers is returned by NewPublisher when no broker address is set.
var ErrNoBrokers = errors.New("kafka publisher requires at least one broker")

// Config configures the Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string

	// WriteTimeout bounds each write. Defaults to 10s.
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes one JSON message per turn event. Messages are keyed by
// request id so retries of the same request land on one partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a Kafka backed publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}

	return NewPublisherWithWriter(w, topic, cfg.Logger), nil
}

// NewPublisherWithWriter wraps an existing writer. Used by tests.
func NewPublisherWithWriter(w messageWriter, topic string, log *slog.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{
		writer: w,
		topic:  topic,
		logger: log,
	}
}

// PublishTurn encodes the event as JSON and writes it synchronously.
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	msg, err := Encode(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing turn event to %s: %w", p.topic, err)
	}

	p.logger.Debug("published turn event",
		"topic", p.topic,
		"event_id", event.EventID,
	)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Encode builds the Kafka message for a turn event.
func Encode(event *eventstream.TurnCompletedEvent) (kafkago.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encoding turn event: %w", err)
	}

	key := event.RequestMeta.RequestID
	if key == "" {
		key = event.EventID
	}

	return kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "provider", Value: []byte(event.Source.Provider)},
		},
	}, nil
}
