package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/logger"
	"github.com/rileyhilliard/perimeter/internal/status"
)

// ErrPollInFlight is returned by Poll when the previous cycle hasn't finished.
var ErrPollInFlight = errors.New(errors.ErrFetch,
	"A status refresh is already in flight",
	"Wait for the current refresh to finish.")

// Poller runs fetch cycles against a status source. At most one cycle is in
// flight at a time; overlapping cycles are skipped, not queued.
type Poller struct {
	fetcher  status.Fetcher
	log      logger.Logger
	timeout  time.Duration
	inFlight atomic.Bool
}

// NewPoller creates a poller. A positive timeout bounds each fetch.
func NewPoller(fetcher status.Fetcher, log logger.Logger, timeout time.Duration) *Poller {
	if log == nil {
		log = logger.Noop()
	}
	return &Poller{
		fetcher: fetcher,
		log:     log,
		timeout: timeout,
	}
}

// InFlight reports whether a cycle is currently running.
func (p *Poller) InFlight() bool {
	return p.inFlight.Load()
}

// Poll runs one fetch cycle. Transport and decode failures are logged and
// returned. A snapshot that doesn't carry the success tag yields (nil, nil)
// so callers have nothing to apply.
func (p *Poller) Poll(ctx context.Context) (*status.Snapshot, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Debug("skipping refresh, previous fetch still running")
		return nil, ErrPollInFlight
	}
	defer p.inFlight.Store(false)

	parent := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	snap, err := p.fetcher.Fetch(ctx)
	if err != nil {
		if parent.Err() != nil {
			p.log.Debug("fetch cancelled: %v", err)
		} else {
			p.log.Error("Error fetching status: %v", err)
		}
		return nil, err
	}
	if !snap.Success() {
		if snap != nil {
			p.log.Debug("status endpoint answered %q: %s", snap.Status, snap.Message)
		}
		return nil, nil
	}
	return snap, nil
}

// Run polls once immediately and then on every interval until ctx is done.
// Fetches run in their own goroutines; apply is only ever called from the
// goroutine running Run, so it may touch a Presenter directly.
func (p *Poller) Run(ctx context.Context, interval time.Duration, apply func(*status.Snapshot)) error {
	if interval <= 0 {
		return errors.New(errors.ErrConfig,
			"Poll interval must be positive",
			"Set poll_interval in your config, e.g. 5s.")
	}

	results := make(chan *status.Snapshot)
	var wg sync.WaitGroup

	launch := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := p.Poll(ctx)
			if err != nil || snap == nil {
				return
			}
			select {
			case results <- snap:
			case <-ctx.Done():
			}
		}()
	}

	launch()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case <-ticker.C:
			launch()
		case snap := <-results:
			apply(snap)
		}
	}
}
