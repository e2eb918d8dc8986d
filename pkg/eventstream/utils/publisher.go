// Package utils selects an eventstream publisher from configuration.
package utils

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
	"github.com/papercomputeco/chatproxy/pkg/eventstream/kafka"
	"github.com/papercomputeco/chatproxy/pkg/eventstream/nop"
)

// Supported publisher kinds.
const (
	PublisherNone  = "none"
	PublisherKafka = "kafka"
)

// PublisherConfig mirrors the events.* configuration keys.
type PublisherConfig struct {
	// Provider is "none" (or empty) or "kafka".
	Provider string

	// Brokers is a comma separated list of host:port addresses.
	Brokers string

	Topic string
}

// NewPublisher builds the publisher named by cfg.Provider.
func NewPublisher(cfg PublisherConfig, log *slog.Logger) (eventstream.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", PublisherNone:
		return nop.NewPublisher(), nil
	case PublisherKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: SplitBrokers(cfg.Brokers),
			Topic:   cfg.Topic,
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events provider: %q (supported: %s, %s)", cfg.Provider, PublisherNone, PublisherKafka)
	}
}

// SplitBrokers splits a comma separated broker list, dropping blanks.
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
