package poll

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerRunsWhileWorkRemains(t *testing.T) {
	var calls atomic.Int32
	finished := make(chan struct{})

	p := New(time.Millisecond, func(now time.Time) bool {
		if calls.Add(1) == 3 {
			close(finished)
			return false
		}
		return true
	}, nil)
	p.Start()
	defer p.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected 3 polls, got %d", calls.Load())
	}
}

func TestKickWakesIdlePoller(t *testing.T) {
	polled := make(chan struct{}, 8)

	p := New(time.Millisecond, func(now time.Time) bool {
		polled <- struct{}{}
		return false
	}, nil)
	p.Start()
	defer p.Stop()

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an initial poll")
	}

	p.Kick()
	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a poll after kick")
	}
}

func TestStopTerminatesLoop(t *testing.T) {
	p := New(time.Millisecond, func(now time.Time) bool { return true }, nil)
	p.Start()

	p.Stop()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected the loop to exit after Stop")
	}

	// Idempotent and safe after shutdown.
	p.Stop()
	p.Kick()
}

func TestStartIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	p := New(time.Millisecond, func(now time.Time) bool {
		calls.Add(1)
		return false
	}, nil)

	p.Start()
	p.Start()
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected at least one poll")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestKickBeforeStartDoesNotBlock(t *testing.T) {
	p := New(time.Millisecond, func(now time.Time) bool { return false }, nil)
	p.Kick()
	p.Kick()
	p.Start()
	p.Stop()
}

func TestStopBeforeStartClosesDone(t *testing.T) {
	p := New(time.Millisecond, func(now time.Time) bool { return true }, nil)
	p.Stop()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected Done to close without Start")
	}

	// A late Start must not revive the loop.
	p.Start()
	p.Stop()
}
