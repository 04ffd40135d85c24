package r6y

import "time"

// Clock abstracts time so that [Retry] waits can be tested
// deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer creates a [Timer] firing after d.
	NewTimer(d time.Duration) Timer
}

// Timer abstracts [time.Timer].
type Timer interface {
	// C returns the channel the firing time is delivered on.
	C() <-chan time.Time
	// Stop prevents the timer from firing.
	Stop() bool
}

// RealClock is a [Clock] backed by the time package.
type RealClock struct{}

// Now returns [time.Now].
func (RealClock) Now() time.Time { return time.Now() }

// NewTimer wraps [time.NewTimer].
func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{inner: time.NewTimer(d)}
}

type realTimer struct {
	inner *time.Timer
}

func (t *realTimer) C() <-chan time.Time { return t.inner.C }
func (t *realTimer) Stop() bool          { return t.inner.Stop() }
