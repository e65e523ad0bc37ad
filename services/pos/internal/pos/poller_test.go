package pos

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{name: "healthy", failures: 0, want: 10 * time.Second},
		{name: "firstFailure", failures: 1, want: 10 * time.Second},
		{name: "secondFailure", failures: 2, want: 20 * time.Second},
		{name: "thirdFailure", failures: 3, want: 40 * time.Second},
		{name: "capped", failures: 10, want: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backoff(10*time.Second, 2*time.Minute, tt.failures); got != tt.want {
				t.Errorf("backoff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPollerTickHealth(t *testing.T) {
	fail := true
	p := NewPoller("orders", PollOptions{Interval: time.Second}, func(ctx context.Context) error {
		if fail {
			return errors.New("offline")
		}
		return nil
	}, aqm.NewNoopLogger())

	if p.Healthy() {
		t.Error("Healthy() before first run = true")
	}
	p.Tick(context.Background())
	if p.Healthy() {
		t.Error("Healthy() after failure = true")
	}

	fail = false
	p.Tick(context.Background())
	if !p.Healthy() {
		t.Error("Healthy() after success = false")
	}
}

func TestPollerTrigger(t *testing.T) {
	var calls atomic.Int32
	ran := make(chan struct{}, 10)
	p := NewPoller("tables", PollOptions{Interval: time.Hour}, func(ctx context.Context) error {
		calls.Add(1)
		ran <- struct{}{}
		return nil
	}, aqm.NewNoopLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer p.Stop(context.Background())

	waitRun(t, ran)
	p.Trigger()
	waitRun(t, ran)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestPollerStop(t *testing.T) {
	ran := make(chan struct{}, 10)
	p := NewPoller("orders", PollOptions{Interval: time.Hour}, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	}, aqm.NewNoopLogger())

	p.Start(context.Background())
	waitRun(t, ran)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := p.Stop(ctx); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func waitRun(t *testing.T, ran <-chan struct{}) {
	t.Helper()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not run")
	}
}
