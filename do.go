package r6y

// Run calls fn with a fresh [Env] configured by opts. It suits one-shot
// work that does not need to share an env with anything else.
func Run[T any](fn func(*Env) (T, error), opts ...EnvOption) (T, error) {
	return fn(NewEnv(opts...))
}
