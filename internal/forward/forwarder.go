package forward

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/logger"
)

// DefaultQueueSize bounds the forwarding queue when none is configured.
const DefaultQueueSize = 64

// drainTimeout bounds delivery of queued events during Stop.
const drainTimeout = 5 * time.Second

// EventWriter delivers one event log entry to a broker.
type EventWriter interface {
	WriteEvent(ctx context.Context, e dashboard.LogEntry) error
	Close() error
}

// Forwarder copies event log entries to an EventWriter in the background.
// Enqueue never blocks: when the queue is full the entry is dropped.
type Forwarder struct {
	writer EventWriter
	log    logger.Logger
	queue  chan dashboard.LogEntry
	stop   chan struct{}
	wg     sync.WaitGroup

	// aborted is cancelled when Stop gives up waiting; nothing is written
	// after that.
	aborted context.Context
	abort   context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopped   atomic.Bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewForwarder creates a forwarder with a queue of queueSize entries.
func NewForwarder(w EventWriter, log logger.Logger, queueSize int) *Forwarder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.Noop()
	}
	aborted, abort := context.WithCancel(context.Background())
	return &Forwarder{
		writer:  w,
		log:     log,
		queue:   make(chan dashboard.LogEntry, queueSize),
		stop:    make(chan struct{}),
		aborted: aborted,
		abort:   abort,
	}
}

// Start launches the delivery loop. Calling it more than once is a no-op.
func (f *Forwarder) Start(ctx context.Context) {
	f.startOnce.Do(func() {
		f.started.Store(true)
		runCtx, cancel := context.WithCancel(ctx)
		stopRun := context.AfterFunc(f.aborted, cancel)
		f.wg.Add(1)
		go func() {
			defer stopRun()
			defer cancel()
			f.run(runCtx)
		}()
	})
}

// Observe is a dashboard.LogObserver that enqueues every entry.
func (f *Forwarder) Observe(e dashboard.LogEntry) {
	f.Enqueue(e)
}

// Enqueue queues e for delivery and reports whether it was accepted.
func (f *Forwarder) Enqueue(e dashboard.LogEntry) bool {
	if f.stopped.Load() {
		return false
	}
	select {
	case f.queue <- e:
		return true
	default:
		f.dropped.Add(1)
		f.log.Warn("event forward queue full, dropping %q", e.Message)
		return false
	}
}

// Stop delivers whatever is queued, then closes the writer. If ctx ends
// first, the in-flight write is cancelled, the rest of the queue is dropped
// and ctx's error is returned. The writer is only closed once the delivery
// loop has exited.
func (f *Forwarder) Stop(ctx context.Context) error {
	var stopErr error
	f.stopOnce.Do(func() {
		f.stopped.Store(true)
		close(f.stop)

		done := make(chan struct{})
		go func() {
			f.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			stopErr = ctx.Err()
			f.abort()
			<-done
			f.log.Warn("event forwarder stopped before the queue drained")
		}
		f.abort()

		if err := f.writer.Close(); err != nil {
			f.log.Error("closing event writer: %v", err)
			if stopErr == nil {
				stopErr = errors.WrapWithCode(err, errors.ErrForward, "Couldn't close the event writer", "")
			}
		}
	})
	return stopErr
}

// Stats returns delivered, failed and dropped counts.
func (f *Forwarder) Stats() (sent, failed, dropped int64) {
	return f.sent.Load(), f.failed.Load(), f.dropped.Load()
}

func (f *Forwarder) run(ctx context.Context) {
	defer f.wg.Done()
	for {
		select {
		case <-f.stop:
			f.drain()
			return
		case <-ctx.Done():
			f.drain()
			return
		case e := <-f.queue:
			f.deliver(ctx, e)
		}
	}
}

func (f *Forwarder) drain() {
	ctx, cancel := context.WithTimeout(f.aborted, drainTimeout)
	defer cancel()
	for {
		select {
		case e := <-f.queue:
			f.deliver(ctx, e)
		default:
			return
		}
	}
}

func (f *Forwarder) deliver(ctx context.Context, e dashboard.LogEntry) {
	if f.aborted.Err() != nil {
		f.dropped.Add(1)
		return
	}
	if err := f.writer.WriteEvent(ctx, e); err != nil {
		f.failed.Add(1)
		f.log.Error("forwarding event %s: %v", e.ID, err)
		return
	}
	f.sent.Add(1)
	f.log.Debug("forwarded event %s", e.ID)
}
