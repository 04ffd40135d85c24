package r6y

import "context"

type (
	// Env is the dynamic state of one goroutine: the active collector, the
	// handler stack, the conditions being handled, the activation counter
	// and the last recovery invoked.
	//
	// An Env must not be shared between goroutines. Use [Env.Fork] to give
	// each goroutine its own.
	Env struct {
		hooks Hooks
		clock Clock

		collector  *Collector
		handlers   []*handlerFrame
		active     []*Condition
		activation int
		last       *Recovery
	}

	// EnvOption configures an [Env].
	EnvOption func(*Env)

	envKey struct{}
)

// WithHooks sets the lifecycle hooks.
func WithHooks(h Hooks) EnvOption {
	return func(e *Env) {
		e.hooks = h
	}
}

// WithClock sets the clock used to wait between restarts in [Retry].
func WithClock(c Clock) EnvOption {
	return func(e *Env) {
		e.clock = c
	}
}

// NewEnv creates an empty execution context.
func NewEnv(opts ...EnvOption) *Env {
	e := &Env{clock: RealClock{}}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Fork returns a fresh Env sharing e's hooks and clock, for use by another
// goroutine.
func (e *Env) Fork() *Env {
	return &Env{hooks: e.hooks, clock: e.clock}
}

// LastRecovery returns the last recovery invoked in this env, or nil.
func (e *Env) LastRecovery() *Recovery { return e.last }

// Activation returns the current signal activation depth.
func (e *Env) Activation() int { return e.activation }

// Current returns the condition being handled, or nil outside handlers.
func (e *Env) Current() *Condition {
	if len(e.active) == 0 {
		return nil
	}

	return e.active[len(e.active)-1]
}

// NewContext returns a copy of ctx carrying env.
func NewContext(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// FromContext returns the env carried by ctx, if any.
func FromContext(ctx context.Context) (*Env, bool) {
	env, ok := ctx.Value(envKey{}).(*Env)

	return env, ok
}
