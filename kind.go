package r6y

import "sync"

// Kind tags a family of recoveries. Kinds form a tree rooted at
// [KindRecovery]: a recovery of kind K satisfies a request for any ancestor
// of K, which is how handlers ask for "any continuing recovery" without
// knowing the concrete one the raiser offered.
//
// A Kind also carries the type-level summary and discussion that recoveries
// fall back to when they do not set their own.
type Kind struct {
	parent *Kind
	name   string

	mu         sync.RWMutex
	summary    string
	discussion string
}

// Built-in kinds.
//
//nolint:gochecknoglobals // kinds are identities, compared by pointer
var (
	// KindRecovery is the root of every kind.
	KindRecovery = newKind("Recovery", nil)
	// KindContinuing recovers by carrying on as if nothing happened.
	KindContinuing = newKind("Continuing", KindRecovery).Describe(
		"Ignores the error and continues execution.",
		"If this recovery is attached to an error, you may safely continue.",
	)
	// KindIgnoring is the continuing recovery that [Env.Signal] and
	// [WithActivation] look for.
	KindIgnoring = newKind("Ignoring", KindContinuing).Describe(
		"Ignores the signal and continues execution.",
		"",
	)
	// KindRetrying performs again the task that failed. The recovery's
	// Count tells how many times it has been invoked.
	KindRetrying = newKind("Retrying", KindRecovery).Describe(
		"Performs again the last task which caused the failure.",
		"Count is the number of times this recovery has been invoked, "+
			"so callers can limit the total number of retries.",
	)
	// KindNamed is the kind of recoveries registered by identifier with
	// [Condition.SetRecovery].
	KindNamed = newKind("Named", KindRecovery)
)

//nolint:gochecknoglobals // seeded into every registry
var builtinKinds = []*Kind{
	KindRecovery,
	KindContinuing,
	KindIgnoring,
	KindRetrying,
	KindNamed,
}

func newKind(name string, parent *Kind) *Kind {
	return &Kind{name: name, parent: parent}
}

// NewKind creates a kind under parent and registers it with the
// [DefaultRegistry]. A nil parent means [KindRecovery].
func NewKind(name string, parent *Kind) *Kind {
	return DefaultRegistry().NewKind(name, parent)
}

// Name returns the kind's name.
func (k *Kind) Name() string { return k.name }

// Parent returns the kind's parent, nil for [KindRecovery].
func (k *Kind) Parent() *Kind { return k.parent }

func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}

	return k.name
}

// Is reports whether k is target or descends from it.
func (k *Kind) Is(target *Kind) bool {
	if target == nil {
		return false
	}

	for cur := k; cur != nil; cur = cur.parent {
		if cur == target {
			return true
		}
	}

	return false
}

// Describe sets the type-level summary and discussion and returns k.
// It is safe for concurrent use.
func (k *Kind) Describe(summary, discussion string) *Kind {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.summary = summary
	k.discussion = discussion

	return k
}

// Summary returns the type-level summary.
func (k *Kind) Summary() string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return k.summary
}

// Discussion returns the type-level discussion.
func (k *Kind) Discussion() string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return k.discussion
}
