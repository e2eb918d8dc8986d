// Package nop provides the publisher used when turn events are disabled.
package nop

import (
	"context"
	"sync/atomic"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
)

// Publisher drops every event. It still counts accepted events so disabled
// mode can be observed in tests and debug logs.
type Publisher struct {
	published atomic.Int64
}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishTurn rejects nil events and otherwise discards the event.
func (p *Publisher) PublishTurn(_ context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	p.published.Add(1)
	return nil
}

// Published returns the number of events accepted so far.
func (p *Publisher) Published() int64 {
	return p.published.Load()
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
