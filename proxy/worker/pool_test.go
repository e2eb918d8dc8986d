package worker

import (
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/eventstream"
	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/logger"
	testutils "github.com/papercomputeco/chatproxy/pkg/utils/test"
)

func testJob(status int) Job {
	started := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return Job{
		Provider:    "groq",
		Model:       "llama3-8b-8192",
		Path:        "/chat",
		RequestID:   "req-1",
		StartedAt:   started,
		CompletedAt: started.Add(1500 * time.Millisecond),
		HTTPStatus:  status,
		Req:         &llm.ChatRequest{UserMessage: "hello"},
		Sent:        []json.RawMessage{json.RawMessage(`{"role":"user","content":"hello"}`)},
		Response:    "hi",
	}
}

var _ = Describe("Worker Pool", func() {
	var pub *testutils.RecordingPublisher

	BeforeEach(func() {
		pub = testutils.NewRecordingPublisher()
	})

	Describe("NewPool", func() {
		It("requires a publisher", func() {
			_, err := NewPool(&Config{})
			Expect(err).To(HaveOccurred())
		})

		It("applies defaults", func() {
			c := &Config{Publisher: pub, Logger: logger.Nop()}
			wp, err := NewPool(c)
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()

			Expect(c.NumWorkers).To(Equal(uint(3)))
			Expect(c.QueueSize).To(Equal(uint(256)))
			Expect(c.PublishTimeout).To(Equal(10 * time.Second))
		})
	})

	Describe("Enqueue", func() {
		It("publishes one event per job and drains on Close", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(testJob(200))).To(BeTrue())
			Expect(wp.Enqueue(testJob(500))).To(BeTrue())
			wp.Close()

			events := pub.Events()
			Expect(events).To(HaveLen(2))
			statuses := []int{events[0].RequestMeta.HTTPStatus, events[1].RequestMeta.HTTPStatus}
			Expect(statuses).To(ConsistOf(200, 500))
		})

		It("drops jobs when the queue is full", func() {
			pub.Gate = make(chan struct{})
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1, QueueSize: 1})
			Expect(err).NotTo(HaveOccurred())

			// First job occupies the worker, second fills the queue.
			Expect(wp.Enqueue(testJob(200))).To(BeTrue())
			Eventually(func() int { return len(wp.queue) }).Should(BeZero())
			Expect(wp.Enqueue(testJob(200))).To(BeTrue())
			Expect(wp.Enqueue(testJob(200))).To(BeFalse())

			close(pub.Gate)
			wp.Close()
			Expect(pub.Events()).To(HaveLen(2))
		})

		It("keeps running when publishing fails", func() {
			pub.Err = errors.New("broker down")
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(testJob(200))).To(BeTrue())
			Expect(wp.Enqueue(testJob(200))).To(BeTrue())
			wp.Close()
			Expect(pub.Events()).To(BeEmpty())
		})
	})

	Describe("NewEvent", func() {
		It("builds the event payload from the job", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()
			wp.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 2, 0, time.UTC) }

			event := wp.NewEvent(testJob(200))
			Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
			Expect(event.EventType).To(Equal("chatproxy.turn.completed"))
			Expect(event.EventID).NotTo(BeEmpty())
			Expect(event.EmittedAt).To(Equal(time.Date(2025, 1, 1, 12, 0, 2, 0, time.UTC)))
			Expect(event.Source).To(Equal(eventstream.EventSource{Provider: "groq", Model: "llama3-8b-8192"}))
			Expect(event.RequestMeta.DurationMs).To(Equal(int64(1500)))
			Expect(event.RequestMeta.RequestID).To(Equal("req-1"))
			Expect(event.Turn.Request.UserMessage).To(Equal("hello"))
			Expect(event.Turn.Response).To(Equal("hi"))
			Expect(event.Turn.Sent).To(HaveLen(1))
			Expect(event.Turn.Sent[0]).To(MatchJSON(`{"role":"user","content":"hello"}`))
		})

		It("assigns unique event ids", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()

			Expect(wp.NewEvent(testJob(200)).EventID).NotTo(Equal(wp.NewEvent(testJob(200)).EventID))
		})
	})
})
