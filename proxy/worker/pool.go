// Package worker provides an asynchronous worker pool that publishes
// completed chat turns to the configured eventstream.Publisher.
//
// The pool keeps event publishing off the proxy's HTTP hot path so a slow or
// unavailable broker never delays a chat response.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

var (
	defaultNumWorkers     uint = 3
	defaultJobQueueSize   uint = 256
	defaultPublishTimeout      = 10 * time.Second
)

// Job is one handled chat request waiting to be published.
type Job struct {
	Provider    string
	Model       string
	Path        string
	RequestID   string
	StartedAt   time.Time
	CompletedAt time.Time
	HTTPStatus  int
	Req         *llm.ChatRequest

	// Sent is the message sequence the provider sent upstream.
	Sent []json.RawMessage

	// Response is the reply text on success.
	Response string

	// Err is the error message returned to the caller on failure.
	Err string
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Publisher receives one event per job. Required.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// PublishTimeout bounds each publish call (defaults to 10s).
	PublishTimeout time.Duration

	Logger *slog.Logger
}

// Pool publishes turn events asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger
	now    func() time.Time
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Publisher == nil {
		return nil, fmt.Errorf("worker pool requires a publisher")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishTimeout
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: log,
		now:    time.Now,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("turn event queued",
			"provider", job.Provider,
			"request_id", job.RequestID,
		)
		return true
	default:
		p.logger.Error("turn event not queued, queue full, event dropped",
			"provider", job.Provider,
			"request_id", job.RequestID,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the proxy HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.PublishTimeout)
	defer cancel()

	event := p.NewEvent(job)
	if err := p.config.Publisher.PublishTurn(ctx, event); err != nil {
		p.logger.Error("publishing turn event failed",
			"provider", job.Provider,
			"event_id", event.EventID,
			"error", err,
		)
		return
	}

	p.logger.Debug("turn event published",
		"provider", job.Provider,
		"event_id", event.EventID,
		"status", job.HTTPStatus,
	)
}

// NewEvent converts a job into its event payload with a fresh event id.
func (p *Pool) NewEvent(job Job) *eventstream.TurnCompletedEvent {
	return &eventstream.TurnCompletedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeTurnCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     p.now().UTC(),
		Source: eventstream.EventSource{
			Provider: job.Provider,
			Model:    job.Model,
		},
		RequestMeta: eventstream.TurnRequestMeta{
			Path:        job.Path,
			RequestID:   job.RequestID,
			StartedAt:   job.StartedAt,
			CompletedAt: job.CompletedAt,
			DurationMs:  job.CompletedAt.Sub(job.StartedAt).Milliseconds(),
			HTTPStatus:  job.HTTPStatus,
		},
		Turn: llm.ConversationTurn{
			Provider: job.Provider,
			Model:    job.Model,
			Request:  job.Req,
			Sent:     job.Sent,
			Response: job.Response,
			Error:    job.Err,
		},
	}
}
