package r6y

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test helpers: fake clock recording the waits between restarts
// ---------------------------------------------------------------------------

// testTimer is a timer that has either already fired or never fires.
type testTimer struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *testTimer) C() <-chan time.Time { return t.ch }

func (t *testTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	was := !t.stopped
	t.stopped = true

	return was
}

// testClock records timer durations. Timers fire immediately unless the
// clock is frozen.
type testClock struct {
	mu        sync.Mutex
	frozen    bool
	timers    []*testTimer
	durations []time.Duration
}

func (c *testClock) Now() time.Time { return time.Now() }

func (c *testClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &testTimer{ch: make(chan time.Time, 1)}
	if !c.frozen {
		t.ch <- time.Now()
	}

	c.timers = append(c.timers, t)
	c.durations = append(c.durations, d)

	return t
}

func (c *testClock) waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]time.Duration, len(c.durations))
	copy(out, c.durations)

	return out
}

// failing returns a task failing n times before returning "ok".
func failing(n int, err error) (func(context.Context) (string, error), *int) {
	calls := 0

	return func(context.Context) (string, error) {
		calls++
		if calls <= n {
			return "", err
		}

		return "ok", nil
	}, &calls
}

// restartAlways is a handler restarting every task offering it.
func restartAlways(env *Env) func(*Condition) (string, error) {
	return func(c *Condition) (string, error) {
		if r, _ := env.Recovery(KindRetrying); r != nil {
			return "", env.Recover(KindRetrying)
		}

		return "", c
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRetrySuccessFirstAttempt(t *testing.T) {
	t.Parallel()

	clk := &testClock{}
	env := NewEnv(WithClock(clk))
	fn, calls := failing(0, errTest)

	v, err := Retry(context.Background(), env, fn)

	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 1, *calls)
	require.Empty(t, clk.waits())
}

func TestRetryUnhandledFailureIsReturned(t *testing.T) {
	t.Parallel()

	env := NewEnv(WithClock(&testClock{}))
	fn, calls := failing(5, errTest)

	_, err := Retry(context.Background(), env, fn, Attempts(5))

	require.ErrorIs(t, err, errTest)
	require.NotErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, 1, *calls)
}

func TestRetryRestartsWhenHandlerAsks(t *testing.T) {
	t.Parallel()

	clk := &testClock{}

	var attempts []int

	env := NewEnv(
		WithClock(clk),
		WithHooks(Hooks{OnRetry: func(attempt int, _ error) { attempts = append(attempts, attempt) }}),
	)
	fn, calls := failing(2, errTest)

	var restart *Recovery

	v, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, fn,
			WithBackoff(LinearBackoff(10*time.Millisecond)),
		)
	}, func(c *Condition) (string, error) {
		require.ErrorIs(t, c, errTest)

		restart, _ = env.Recovery(KindRetrying)

		return "", env.Recover(KindRetrying)
	})

	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 3, *calls)
	require.Equal(t, 2, restart.Count())
	require.Equal(t, []int{1, 2}, attempts)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, clk.waits())
}

func TestRetryExhausted(t *testing.T) {
	t.Parallel()

	env := NewEnv(WithClock(&testClock{}))
	fn, calls := failing(10, errTest)

	_, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, fn, Attempts(3))
	}, restartAlways(env))

	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.ErrorIs(t, err, errTest)
	require.Equal(t, 3, *calls)
}

func TestRetryPermanentIsNotOffered(t *testing.T) {
	t.Parallel()

	env := NewEnv(WithClock(&testClock{}))
	fn, calls := failing(10, Permanent(errTest))

	var offered bool

	_, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, fn)
	}, func(c *Condition) (string, error) {
		r, _ := env.Recovery(KindRetrying)
		offered = r != nil

		return "", c
	})

	require.ErrorIs(t, err, errTest)
	require.True(t, IsPermanent(err))
	require.False(t, offered)
	require.Equal(t, 1, *calls)
}

func TestRetryIfFiltersErrors(t *testing.T) {
	t.Parallel()

	errOther := errors.New("other")
	env := NewEnv(WithClock(&testClock{}))
	fn, calls := failing(10, errOther)

	_, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, fn,
			RetryIf(func(err error) bool { return errors.Is(err, errTest) }),
		)
	}, restartAlways(env))

	require.ErrorIs(t, err, errOther)
	require.Equal(t, 1, *calls)
}

func TestRetryMaxDelayCapsBackoff(t *testing.T) {
	t.Parallel()

	clk := &testClock{}
	env := NewEnv(WithClock(clk))
	fn, _ := failing(3, errTest)

	v, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, fn,
			Attempts(4),
			WithBackoff(ExponentialBackoff(100*time.Millisecond)),
			MaxDelay(250*time.Millisecond),
		)
	}, restartAlways(env))

	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		250 * time.Millisecond,
	}, clk.waits())
}

func TestRetryContextCancelledDuringWait(t *testing.T) {
	t.Parallel()

	clk := &testClock{frozen: true}
	env := NewEnv(WithClock(clk))
	fn, calls := failing(10, errTest)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := Handle(env, func() (string, error) {
		return Retry(ctx, env, fn, WithBackoff(ConstantBackoff(time.Hour)))
	}, func(c *Condition) (string, error) {
		if errors.Is(c, context.Canceled) {
			return "", c
		}

		cancel()

		return "", env.Recover(KindRetrying)
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, *calls)
	require.True(t, clk.timers[0].stopped)
}

func TestRetryRecoveriesOfTaskStayAvailable(t *testing.T) {
	t.Parallel()

	env := NewEnv(WithClock(&testClock{}))

	v, err := Handle(env, func() (string, error) {
		return Retry(context.Background(), env, func(context.Context) (string, error) {
			return Value[string](env.Raise(errTest, func(c *Condition) {
				c.Add(Continuing())
			}))
		})
	}, func(c *Condition) (string, error) {
		require.NotNil(t, c.Find(KindRetrying))

		return "", env.Recover(KindContinuing, "continued")
	})

	require.NoError(t, err)
	require.Equal(t, "continued", v)
}
