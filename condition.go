package r6y

import (
	"maps"
	"strings"

	json "github.com/goccy/go-json"
)

type (
	// Condition is an error augmented with an ordered registry of
	// recoveries. At most one recovery is kept per key: the kind for typed
	// recoveries, the identifier for those registered with SetRecovery.
	// The first registration for a key wins, so recoveries offered closest
	// to the original raise are never replaced by an outer re-raise.
	Condition struct {
		err      error
		entries  []*Recovery
		index    map[recoveryKey]*Recovery
		retrying *Recovery
	}

	recoveryKey struct {
		kind *Kind
		id   string
	}

	conditionJSON struct {
		Error      string      `json:"error"`
		Recoveries []*Recovery `json:"recoveries"`
	}
)

// NewCondition wraps err in a condition. A *Condition is returned as is,
// which is how re-raising keeps the recoveries already registered.
func NewCondition(err error) *Condition {
	if c, ok := err.(*Condition); ok { //nolint:errorlint // identity, not a chain lookup
		return c
	}

	return &Condition{err: err}
}

func (c *Condition) Error() string {
	if c.err == nil {
		return "r6y: condition"
	}

	return c.err.Error()
}

// Unwrap returns the wrapped error.
func (c *Condition) Unwrap() error { return c.err }

// Err returns the wrapped error.
func (c *Condition) Err() error { return c.err }

// Len returns the number of registered recoveries.
func (c *Condition) Len() int { return len(c.entries) }

// Recoveries returns the registered recoveries in registration order.
func (c *Condition) Recoveries() []*Recovery {
	out := make([]*Recovery, len(c.entries))
	copy(out, c.entries)

	return out
}

// Add registers r and reports whether it was added. Registering a second
// recovery under the same key is silently ignored.
func (c *Condition) Add(r *Recovery) bool {
	key := keyOf(r)
	if _, ok := c.index[key]; ok {
		return false
	}

	if c.index == nil {
		c.index = make(map[recoveryKey]*Recovery)
	}

	c.index[key] = r
	c.entries = append(c.entries, r)

	return true
}

// AddKind registers a fresh recovery of kind k unless one is present, and
// returns the recovery now registered for k.
func (c *Condition) AddKind(k *Kind, opts ...RecoveryOption) *Recovery {
	if r, ok := c.index[recoveryKey{kind: k}]; ok {
		return r
	}

	r := NewRecovery(k, opts...)
	c.Add(r)

	return r
}

// Find returns the first recovery, in registration order, whose kind is k
// or descends from k. It returns nil when none matches.
func (c *Condition) Find(k *Kind) *Recovery {
	if k == nil {
		return nil
	}

	for _, r := range c.entries {
		if r.kind.Is(k) {
			return r
		}
	}

	return nil
}

// Describe renders the recoveries for presentation to a human.
func (c *Condition) Describe() string {
	blocks := make([]string, 0, len(c.entries))

	for _, r := range c.entries {
		var b strings.Builder

		name := r.Name()
		b.WriteString(name + "\n")
		b.WriteString(strings.Repeat("-", len(name)) + "\n")
		b.WriteString(r.Summary() + "\n")

		if d := r.Discussion(); d != "" {
			b.WriteString(d + "\n")
		}

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n")
}

// MarshalJSON encodes the error message and the recovery listing.
func (c *Condition) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // encoding errors are returned as-is
	return json.Marshal(conditionJSON{
		Error:      c.Error(),
		Recoveries: c.Recoveries(),
	})
}

// ---------------------------------------------------------------------------
// Identifier addressing
// ---------------------------------------------------------------------------

// SetRecovery registers a recovery addressed by id. opts are kept as a
// read-only snapshot; the "summary" and "discussion" entries, when
// strings, describe the recovery. A nil fn registers nothing.
func (c *Condition) SetRecovery(id string, opts map[string]any, fn func(args ...any) any) {
	if fn == nil {
		return
	}

	r := NewRecovery(KindNamed, WithAction(fn))
	r.id = id
	r.options = maps.Clone(opts)

	if s, ok := opts["summary"].(string); ok {
		r.summary = s
	}

	if s, ok := opts["discussion"].(string); ok {
		r.discussion = s
	}

	if v, ok := opts["data"]; ok {
		r.data = v
	}

	c.Add(r)
}

// HasRecovery reports whether a recovery is registered under id.
func (c *Condition) HasRecovery(id string) bool {
	_, ok := c.index[recoveryKey{id: id}]

	return ok
}

// RecoveryIdentifiers lists the identifiers of recoveries registered with
// SetRecovery, in registration order.
func (c *Condition) RecoveryIdentifiers() []string {
	var ids []string

	for _, r := range c.entries {
		if r.id != "" {
			ids = append(ids, r.id)
		}
	}

	return ids
}

// RecoveryOptions returns a copy of the options given to SetRecovery for
// id, or nil. Mutating the copy does not affect the condition.
func (c *Condition) RecoveryOptions(id string) map[string]any {
	r, ok := c.index[recoveryKey{id: id}]
	if !ok {
		return nil
	}

	out := maps.Clone(r.options)
	if out == nil {
		out = make(map[string]any)
	}

	return out
}

// Recover invokes the recovery registered under id. It returns a
// *ControlException when there is none; see [Recovery.Invoke] otherwise.
func (c *Condition) Recover(id string, args ...any) error {
	r, ok := c.index[recoveryKey{id: id}]
	if !ok {
		return &ControlException{ID: id}
	}

	return r.Invoke(args...)
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// merge adds the collector's recoveries after the ones already present.
func (c *Condition) merge(col *Collector) {
	for _, r := range col.entries {
		c.Add(r)
	}
}

// bind attaches f to every recovery without a live resumption.
func (c *Condition) bind(f *frame) {
	for _, r := range c.entries {
		if r.frame == nil || r.frame.done {
			r.frame = f
		}
	}
}

// retryingRecovery returns the Retrying singleton offered when a recovery
// lookup on c fails.
func (c *Condition) retryingRecovery() *Recovery {
	if c.retrying == nil {
		c.retrying = NewRecovery(KindRetrying, WithAction(func(args ...any) any {
			return args
		}))
	}

	return c.retrying
}

func keyOf(r *Recovery) recoveryKey {
	if r.id != "" {
		return recoveryKey{id: r.id}
	}

	return recoveryKey{kind: r.kind}
}
