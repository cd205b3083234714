// Package poll drives render passes from a single goroutine. The
// engine core is single-threaded; the poller serializes passes while
// the host stays event-driven, idling whenever the poll function
// reports no more work.
package poll

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/chime/internal/logging"
)

// Func is one poll step. It returns true while more work remains; the
// poller idles after a false return until the next Kick.
type Func func(now time.Time) bool

// DefaultPeriod is the tick interval used when none is given.
const DefaultPeriod = 100 * time.Millisecond

// Poller invokes a poll function on a fixed period from one goroutine.
type Poller struct {
	period time.Duration
	fn     Func
	log    *logging.Logger

	kick    chan struct{}
	done    chan struct{}
	exited  chan struct{}
	running atomic.Bool
	stop    sync.Once
}

// New creates a poller. The period falls back to DefaultPeriod when
// zero or negative.
func New(period time.Duration, fn Func, log *logging.Logger) *Poller {
	if period <= 0 {
		period = DefaultPeriod
	}
	if log == nil {
		log = logging.Null
	}
	return &Poller{
		period: period,
		fn:     fn,
		log:    log,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Start launches the poll goroutine. Repeated calls are no-ops.
func (p *Poller) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.log.Debug("poller started, period %v", p.period)
	go p.loop()
}

// Kick wakes an idle poller. Safe from any goroutine; a kick delivered
// while the poller is active coalesces with the next tick.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Stop terminates the poll goroutine. Safe to call more than once, and
// before Start.
func (p *Poller) Stop() {
	p.stop.Do(func() {
		close(p.done)
		// Claim the running slot so a never-started poller still
		// closes its exit channel, and a later Start stays a no-op.
		if p.running.CompareAndSwap(false, true) {
			close(p.exited)
		}
	})
}

// Done is closed once the poll goroutine has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.exited
}

func (p *Poller) loop() {
	defer close(p.exited)

	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	active := true
	for {
		if active {
			select {
			case <-ticker.C:
			case <-p.kick:
			case <-p.done:
				return
			}
		} else {
			select {
			case <-p.kick:
				// Drop a tick buffered while idle so the resumed
				// schedule starts fresh.
				select {
				case <-ticker.C:
				default:
				}
				ticker.Reset(p.period)
			case <-p.done:
				return
			}
		}
		active = p.fn(time.Now())
	}
}
