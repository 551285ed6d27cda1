package forward

import (
	"context"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"

	"github.com/rileyhilliard/perimeter/internal/dashboard"
)

// fakeToken completes immediately with err, or never when hang is set.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error, hang bool) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	if !hang {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient records publishes. Embedding mqtt.Client satisfies the
// interface; only the methods below may be called.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	msgs         []published
	err          error
	hang         bool
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newToken(c.err, c.hang)
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

func (c *fakeClient) Published() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.msgs...)
}

// fakeKafka records written messages.
type fakeKafka struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (k *fakeKafka) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return k.err
	}
	k.msgs = append(k.msgs, msgs...)
	return nil
}

func (k *fakeKafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.closed = true
	return nil
}

// fakeWriter records events and can block until released.
type fakeWriter struct {
	mu      sync.Mutex
	events  []dashboard.LogEntry
	err     error
	gate    chan struct{}
	closed  bool
	late    int
	closeFn func() error
}

func (w *fakeWriter) WriteEvent(ctx context.Context, e dashboard.LogEntry) error {
	if w.gate != nil {
		select {
		case <-w.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.late++
	}
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, e)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}

func (w *fakeWriter) Events() []dashboard.LogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]dashboard.LogEntry(nil), w.events...)
}

// WritesAfterClose counts WriteEvent calls that reached the writer after Close.
func (w *fakeWriter) WritesAfterClose() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.late
}

func (w *fakeWriter) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
