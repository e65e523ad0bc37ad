package pos

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// Poller runs fetch on a fixed interval plus jitter, backing off
// exponentially while fetch keeps failing. Trigger forces an early run.
type Poller struct {
	name    string
	opts    PollOptions
	fetch   func(context.Context) error
	trigger chan struct{}
	logger  aqm.Logger

	mu          sync.Mutex
	failures    int
	lastErr     error
	lastSuccess time.Time
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewPoller(name string, opts PollOptions, fetch func(context.Context) error, logger aqm.Logger) *Poller {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.MaxBackoff < opts.Interval {
		opts.MaxBackoff = opts.Interval
	}
	return &Poller{
		name:    name,
		opts:    opts,
		fetch:   fetch,
		trigger: make(chan struct{}, 1),
		logger:  logger,
	}
}

// Start runs the loop in the background until Stop or ctx ends.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		p.Run(runCtx)
	}()

	p.logger.Info("poller started", "name", p.name, "interval", p.opts.Interval.String())
	return nil
}

func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run blocks, polling until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.Tick(ctx)
	for {
		timer := time.NewTimer(p.nextDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.trigger:
			timer.Stop()
		case <-timer.C:
		}
		p.Tick(ctx)
	}
}

// Trigger asks for an immediate run. Triggers coalesce.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Tick runs fetch once and records the outcome.
func (p *Poller) Tick(ctx context.Context) {
	err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failures++
		p.lastErr = err
		p.logger.Error("poll failed", "name", p.name, "failures", p.failures, "error", err)
		return
	}
	if p.failures > 0 {
		p.logger.Info("poll recovered", "name", p.name, "after_failures", p.failures)
	}
	p.failures = 0
	p.lastErr = nil
	p.lastSuccess = time.Now()
}

// Healthy reports whether the last run succeeded.
func (p *Poller) Healthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures == 0 && !p.lastSuccess.IsZero()
}

func (p *Poller) Name() string {
	return p.name
}

func (p *Poller) nextDelay() time.Duration {
	p.mu.Lock()
	failures := p.failures
	p.mu.Unlock()

	delay := backoff(p.opts.Interval, p.opts.MaxBackoff, failures)
	if p.opts.Jitter > 0 {
		delay += time.Duration(rand.Int64N(int64(p.opts.Jitter)))
	}
	return delay
}

// backoff doubles interval per consecutive failure past the first,
// capped at limit.
func backoff(interval, limit time.Duration, failures int) time.Duration {
	delay := interval
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}
	return delay
}
