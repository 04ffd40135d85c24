package r6y

// Select opens a selection: it installs a new [Collector] as the env's
// active collector, replacing any previous one, and returns it.
func (e *Env) Select() *Collector {
	e.collector = newCollector()

	return e.collector
}

// Recovery returns the first recovery of the current condition whose kind
// is k or descends from k, in registration order. It returns nil when none
// matches, and [ErrNoActiveCondition] outside handlers.
func (e *Env) Recovery(k *Kind) (*Recovery, error) {
	c := e.Current()
	if c == nil {
		return nil, ErrNoActiveCondition
	}

	return c.Find(k), nil
}

// Recover resolves k like [Env.Recovery] and invokes the match with args,
// in which case it does not return.
//
// When nothing matches, Recover raises a *[MissingRecoveryError] offering
// the current condition's Retrying recovery. Invoking that recovery with
// (kind, args...) retries with the new choice; with no arguments it
// retries the same choice; with a first argument that is not a *Kind it
// retries the same choice with new arguments. Without a handler the
// *MissingRecoveryError is returned.
func (e *Env) Recover(k *Kind, args ...any) error {
	c := e.Current()
	if c == nil {
		return ErrNoActiveCondition
	}

	choice := k

	for {
		if r := c.Find(choice); r != nil {
			return r.Invoke(args...)
		}

		missing := &MissingRecoveryError{Chosen: choice, Cause: c}
		e.hooks.emitMissingRecovery(choice, c)

		retry := c.retryingRecovery()

		v, err := e.Raise(missing, func(mc *Condition) { mc.Add(retry) })
		if err != nil {
			return missing
		}

		choice, args = nextChoice(choice, args, v)
	}
}

// nextChoice interprets the value a Retrying recovery resumed with.
func nextChoice(choice *Kind, args []any, v any) (*Kind, []any) {
	next, ok := v.([]any)
	if !ok || len(next) == 0 {
		return choice, args
	}

	if k, isKind := next[0].(*Kind); isKind {
		return k, next[1:]
	}

	return choice, next
}
