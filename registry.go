package r6y

import (
	"sync"
	"sync/atomic"
)

// Registry is a catalog of kinds by name. [Config.Apply] resolves kind
// names against it.
//
// Pattern: Singleton. DefaultRegistry uses sync.OnceValue for safe lazy
// init; explicit registries can be created for testing.
type Registry struct {
	kinds atomic.Pointer[[]*Kind]
	mu    sync.Mutex
}

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultRegistry = sync.OnceValue(NewRegistry)

// NewRegistry creates a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{}

	seeded := make([]*Kind, len(builtinKinds))
	copy(seeded, builtinKinds)
	r.kinds.Store(&seeded)

	return r
}

// DefaultRegistry returns the package-level registry, creating it on first
// call. [NewKind] registers with it.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// NewKind creates a kind under parent and registers it with r. A nil
// parent means [KindRecovery]. The kind is returned even when its name was
// already taken, in which case Lookup keeps returning the earlier one.
func (r *Registry) NewKind(name string, parent *Kind) *Kind {
	if parent == nil {
		parent = KindRecovery
	}

	k := newKind(name, parent)
	r.Register(k)

	return k
}

// Register adds k to the registry and reports whether it was added.
// The first kind registered under a name wins.
// It is safe for concurrent use.
func (r *Registry) Register(k *Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.kinds.Load()
	for _, existing := range old {
		if existing.name == k.name {
			return false
		}
	}

	// Copy-on-write so concurrent readers never see a partial slice.
	updated := make([]*Kind, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, k)
	r.kinds.Store(&updated)

	return true
}

// Lookup returns the kind registered under name, or nil.
func (r *Registry) Lookup(name string) *Kind {
	for _, k := range *r.kinds.Load() {
		if k.name == name {
			return k
		}
	}

	return nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []*Kind {
	kinds := *r.kinds.Load()
	out := make([]*Kind, len(kinds))
	copy(out, kinds)

	return out
}
