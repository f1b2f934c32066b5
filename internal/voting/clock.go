package voting

import "time"

// Timer is a scheduled callback that may be cancelled before it fires.
type Timer interface {
	// Stop cancels the timer. It reports false when the callback already
	// fired or was stopped before.
	Stop() bool
}

// Clock abstracts time so tests can drive vote windows and fanfare sweeps
// without real delays.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{timer: time.AfterFunc(d, fn)}
}

type realTimer struct {
	timer *time.Timer
}

func (t realTimer) Stop() bool { return t.timer.Stop() }
