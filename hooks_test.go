package r6y_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte4ever/r6y"
)

func TestHooksNilFieldsAreSkipped(t *testing.T) {
	t.Parallel()

	env := r6y.NewEnv(r6y.WithHooks(r6y.Hooks{}))

	require.NotPanics(t, func() {
		_, _ = env.Raise(errBoom)
		_, _ = env.Signal(errBoom)
		_, _ = r6y.Fallback(env, func() (int, error) { return 0, errBoom }, 1)
	})
}

func TestChainHooks(t *testing.T) {
	t.Parallel()

	var events []string

	record := func(prefix string) r6y.Hooks {
		return r6y.Hooks{
			OnRaise:     func(*r6y.Condition) { events = append(events, prefix+":raise") },
			OnUnhandled: func(*r6y.Condition) { events = append(events, prefix+":unhandled") },
			OnFallbackUsed: func(error) {
				events = append(events, prefix+":fallback")
			},
		}
	}

	env := r6y.NewEnv(r6y.WithHooks(r6y.ChainHooks(record("a"), r6y.Hooks{}, record("b"))))

	_, _ = env.Raise(errBoom)
	_, _ = r6y.Fallback(env, func() (int, error) { return 0, errBoom }, 1)

	require.Equal(t, []string{
		"a:raise", "b:raise",
		"a:unhandled", "b:unhandled",
		"a:fallback", "b:fallback",
	}, events)
}

func TestHooksObserveRecoveryLifecycle(t *testing.T) {
	t.Parallel()

	var (
		recovered []string
		missing   []*r6y.Kind
	)

	env := r6y.NewEnv(r6y.WithHooks(r6y.Hooks{
		OnRecover: func(r *r6y.Recovery, _ []any) { recovered = append(recovered, r.Name()) },
		OnMissingRecovery: func(k *r6y.Kind, cause error) {
			require.ErrorIs(t, cause, errBoom)

			missing = append(missing, k)
		},
	}))

	_, err := r6y.Handle(env, func() (any, error) {
		return env.Raise(errBoom, func(c *r6y.Condition) { c.Add(r6y.Ignoring()) })
	}, func(*r6y.Condition) (any, error) {
		return r6y.Handle(env, func() (any, error) {
			return nil, env.Recover(r6y.KindRetrying)
		}, func(*r6y.Condition) (any, error) {
			return nil, env.Recover(r6y.KindRetrying, r6y.KindContinuing)
		})
	})

	require.NoError(t, err)
	require.Equal(t, []*r6y.Kind{r6y.KindRetrying}, missing)
	require.Equal(t, []string{"Retrying", "Ignoring"}, recovered)
}
