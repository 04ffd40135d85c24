package r6y

import (
	"context"
	"fmt"
	"time"
)

// retryConfig holds the configuration of a [Retry] call.
type retryConfig struct {
	strategy BackoffStrategy
	retryIf  func(error) bool // nil means every non-permanent error
	attempts int
	maxDelay time.Duration // 0 means no cap
}

// RetryOption configures [Retry].
type RetryOption func(*retryConfig)

// Attempts sets the maximum number of times fn runs. Values below 1 mean 1.
func Attempts(n int) RetryOption {
	return func(cfg *retryConfig) {
		cfg.attempts = n
	}
}

// WithBackoff sets the delay strategy between restarts.
func WithBackoff(s BackoffStrategy) RetryOption {
	return func(cfg *retryConfig) {
		cfg.strategy = s
	}
}

// MaxDelay caps the backoff delay.
func MaxDelay(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.maxDelay = d
	}
}

// RetryIf sets a predicate restricting which errors are offered a restart,
// in addition to the Permanent classification.
func RetryIf(fn func(error) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.retryIf = fn
	}
}

// Retry runs fn and, when it fails, re-raises the failure to the outer
// handlers with a Retrying recovery attached. A handler invoking that
// recovery makes Retry wait for the backoff delay and run fn again. The
// same Retrying recovery is offered on every attempt, so its Count tells
// handlers how many restarts they already asked for.
//
// Errors marked [Permanent] and errors rejected by [RetryIf] are re-raised
// without the recovery, and so is the failure of a single attempt. When no
// outer handler takes the failure, Retry returns it. When fn was restarted
// and its last attempt fails too, Retry returns that failure wrapped with
// [ErrRetriesExhausted] without raising it again.
func Retry[T any](ctx context.Context, env *Env, fn func(context.Context) (T, error), opts ...RetryOption) (T, error) {
	cfg := retryConfig{strategy: ConstantBackoff(0), attempts: 3}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.attempts < 1 {
		cfg.attempts = 1
	}

	var zero T

	restart := NewRecovery(KindRetrying)

	for attempt := 0; ; attempt++ {
		restarted := false
		failure := error(nil)

		result, err := Handle(env, func() (T, error) {
			return fn(ctx)
		}, func(c *Condition) (T, error) {
			failure = c

			last := attempt >= cfg.attempts-1
			if last && attempt > 0 {
				return zero, fmt.Errorf("%w: %w", ErrRetriesExhausted, c)
			}

			offer := !last &&
				!IsPermanent(c) &&
				(cfg.retryIf == nil || cfg.retryIf(c))

			var configure []func(*Condition)
			if offer {
				configure = append(configure, func(rc *Condition) { rc.Add(restart) })
			}

			v, err := env.Raise(c, configure...)
			if err != nil {
				return zero, err
			}

			if env.LastRecovery() == restart {
				restarted = true

				return zero, nil
			}

			t, _ := v.(T)

			return t, nil
		})
		if !restarted {
			return result, err
		}

		env.hooks.emitRetry(attempt+1, failure)

		delay := cfg.strategy.Delay(attempt)
		if cfg.maxDelay > 0 && delay > cfg.maxDelay {
			delay = cfg.maxDelay
		}

		timer := env.clock.NewTimer(delay)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()

			return zero, ctx.Err()
		}
	}
}
