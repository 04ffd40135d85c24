package r6y

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy determines how long [Retry] waits before a restart.
//
// Pattern: Strategy. Swap delay algorithms without changing the restart
// loop.
type BackoffStrategy interface {
	// Delay returns the wait before the restart following the given
	// 0-indexed attempt.
	Delay(attempt int) time.Duration
}

// BackoffFunc adapts a plain function into a [BackoffStrategy].
type BackoffFunc func(attempt int) time.Duration

// Delay calls f.
func (f BackoffFunc) Delay(attempt int) time.Duration { return f(attempt) }

// ConstantBackoff waits d before every restart.
func ConstantBackoff(d time.Duration) BackoffStrategy {
	return BackoffFunc(func(int) time.Duration { return d })
}

// ExponentialBackoff waits base * 2^attempt.
func ExponentialBackoff(base time.Duration) BackoffStrategy {
	return BackoffFunc(func(attempt int) time.Duration {
		return scaled(base, attempt)
	})
}

// LinearBackoff waits step * (attempt + 1).
func LinearBackoff(step time.Duration) BackoffStrategy {
	return BackoffFunc(func(attempt int) time.Duration {
		return step * time.Duration(attempt+1)
	})
}

// ExponentialJitterBackoff waits a random duration in
// [0, base * 2^attempt], spreading restarts of concurrent callers.
func ExponentialJitterBackoff(base time.Duration) BackoffStrategy {
	return BackoffFunc(func(attempt int) time.Duration {
		ceiling := int64(scaled(base, attempt))
		if ceiling <= 0 {
			return 0
		}

		return time.Duration(rand.Int64N(ceiling + 1))
	})
}

func scaled(base time.Duration, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
}

// parseBackoff maps a strategy name and base delay to a [BackoffStrategy].
//
//nolint:ireturn // returns interface by design for strategy pattern
func parseBackoff(name string, base time.Duration) (BackoffStrategy, error) {
	switch name {
	case "constant":
		return ConstantBackoff(base), nil
	case "exponential":
		return ExponentialBackoff(base), nil
	case "linear":
		return LinearBackoff(base), nil
	case "exponential_jitter":
		return ExponentialJitterBackoff(base), nil
	default:
		return nil, &unknownBackoffError{name: name}
	}
}

type unknownBackoffError struct {
	name string
}

func (e *unknownBackoffError) Error() string {
	return "unknown backoff strategy: " + e.name
}
