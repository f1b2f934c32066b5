package testsupport

import (
	"sort"
	"sync"
	"time"

	"tonearm/internal/voting"
)

// Clock is a manual clock for driving vote windows and fanfare sweeps in
// tests without real delays.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewClock returns a clock frozen at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run when the clock advances past d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) voting.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

// Advance moves the clock forward and fires due timers in deadline order.
// Callbacks run outside the clock's lock, as they would with time.AfterFunc.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, timer := range c.timers {
		if !timer.stopped() && !timer.deadline.After(now) {
			due = append(due, timer)
			continue
		}
		remaining = append(remaining, timer)
	}
	c.timers = remaining
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, timer := range due {
		timer.fire()
	}
}

// PendingTimers reports how many timers are scheduled and not yet fired
// or stopped.
func (c *Clock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, timer := range c.timers {
		if !timer.stopped() {
			count++
		}
	}
	return count
}

type fakeTimer struct {
	mu       sync.Mutex
	deadline time.Time
	fn       func()
	done     bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (t *fakeTimer) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}
