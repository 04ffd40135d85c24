package r6y

// WithActivation runs fn in a region where [Env.Signal] raises for real.
// The activation counter is incremented for the duration of fn and
// restored on every exit path.
//
// A condition reaching the region's own handler is continued through its
// Ignoring recovery when it has a bound one; anything else is re-raised to
// the outer handlers.
func WithActivation[T any](env *Env, fn func() (T, error)) (T, error) {
	env.activation++

	defer func() { env.activation-- }()

	return Handle(env, fn, func(c *Condition) (T, error) {
		var zero T

		if r := c.Find(KindIgnoring); r != nil {
			if err := r.Invoke(); err != nil {
				return zero, err
			}
		}

		_, err := env.Raise(c)

		return zero, err
	})
}

// Signal is a raise that callers may ignore.
//
// When the active collector offers an Ignoring recovery, Signal raises
// inside an activation region and otherwise invokes that recovery in place
// and returns its value. Without an Ignoring recovery, Signal raises inside
// an activation region and does nothing outside one. The active collector
// is consumed in every case.
func (e *Env) Signal(err error, configure ...func(*Condition)) (any, error) {
	var ignoring *Recovery
	if e.collector != nil {
		ignoring = e.collector.find(KindIgnoring)
	}

	if e.activation > 0 {
		return e.Raise(err, configure...)
	}

	e.collector = nil

	if ignoring != nil {
		e.hooks.emitSignalIgnored(err)

		return ignoring.apply(e, nil), nil
	}

	e.hooks.emitSignalSkipped(err)

	return nil, nil
}
