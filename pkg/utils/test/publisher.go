package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
)

// RecordingPublisher is a test eventstream publisher that keeps every event.
type RecordingPublisher struct {
	// Err causes PublishTurn to return this error.
	Err error

	// Gate, when set, blocks PublishTurn until it is closed.
	Gate chan struct{}

	mu     sync.Mutex
	events []*eventstream.TurnCompletedEvent
	closed bool
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (r *RecordingPublisher) PublishTurn(_ context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}
	if r.Gate != nil {
		<-r.Gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *RecordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Events returns a copy of the published events.
func (r *RecordingPublisher) Events() []*eventstream.TurnCompletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.TurnCompletedEvent(nil), r.events...)
}

// Closed reports whether Close was called.
func (r *RecordingPublisher) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
