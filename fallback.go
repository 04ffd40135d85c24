package r6y

// Pattern: Fallback. Catches a condition and answers with a static value,
// providing a last line of defence around a body.

// Fallback runs body and returns fallback instead of any condition raised
// or error returned by it. Recoveries are never invoked.
func Fallback[T any](env *Env, body func() (T, error), fallback T) (T, error) {
	return Handle(env, body, func(c *Condition) (T, error) {
		env.hooks.emitFallbackUsed(c)

		return fallback, nil
	})
}
