package state

import (
	"sync/atomic"
	"time"
)

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred work. Tests swap in a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock runs callbacks on real timers.
var SystemClock Clock = systemClock{}

// debouncer runs the latest scheduled callback after a delay unless a newer
// generation superseded it. Cancel and Schedule both bump the generation so
// a stale timer becomes a no-op when it fires.
type debouncer struct {
	clock Clock
	delay time.Duration
	gen   uint64
}

func newDebouncer(c Clock, d time.Duration) *debouncer {
	if c == nil {
		c = SystemClock
	}
	return &debouncer{clock: c, delay: d}
}

func (d *debouncer) next() uint64 {
	return atomic.AddUint64(&d.gen, 1)
}

// Schedule arranges for f to run after the delay.
func (d *debouncer) Schedule(f func()) {
	g := d.next()
	if d.delay <= 0 {
		f()
		return
	}
	d.clock.AfterFunc(d.delay, func() {
		if atomic.LoadUint64(&d.gen) == g {
			f()
		}
	})
}

// Cancel voids any pending callback.
func (d *debouncer) Cancel() {
	d.next()
}

// pathIDs hands out ids for strokes drawn directly on the board. They count
// down from -1 so they never collide with host assigned ids.
type pathIDs struct {
	last int64
}

func (p *pathIDs) next() int {
	return int(atomic.AddInt64(&p.last, -1))
}
