package sim

import "time"

// Clock is a monotonic time source. Only differences between readings
// are meaningful.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reads the process monotonic clock.
type MonotonicClock struct {
	start time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}

// FrameTimer turns consecutive clock readings into frame delta times.
type FrameTimer struct {
	clock Clock
	last  time.Duration
}

func NewFrameTimer(clock Clock) *FrameTimer {
	return &FrameTimer{
		clock: clock,
		last:  clock.Now(),
	}
}

// Delta returns the seconds elapsed since the previous call (or since the
// timer was created).
func (ft *FrameTimer) Delta() float64 {
	now := ft.clock.Now()
	delta := (now - ft.last).Seconds()
	ft.last = now
	return delta
}
