package r6y

import "slices"

// Collector gathers the recoveries offered by a selection before any error
// exists. [Env.Select] installs one; the next Raise or Signal on the same
// env consumes it.
//
// Registration follows the condition rule: one recovery per kind, first
// registration wins.
type Collector struct {
	entries []*Recovery
	seen    map[recoveryKey]struct{}
	args    []any
}

func newCollector() *Collector {
	return &Collector{seen: make(map[recoveryKey]struct{})}
}

// Register offers r and reports whether it was added.
func (c *Collector) Register(r *Recovery) bool {
	key := keyOf(r)
	if _, ok := c.seen[key]; ok {
		return false
	}

	c.seen[key] = struct{}{}
	c.entries = append(c.entries, r)
	r.collector = c

	return true
}

// RegisterKind offers a fresh recovery of kind k.
func (c *Collector) RegisterKind(k *Kind, opts ...RecoveryOption) bool {
	return c.Register(NewRecovery(k, opts...))
}

// Match offers r and always reports false. It lets a switch enumerate the
// available recoveries, every case being evaluated:
//
//	sel := env.Select()
//	switch {
//	case sel.Match(r6y.Ignoring()):
//	case sel.Match(useCached):
//	default:
//		v, err = env.Raise(err)
//	}
func (c *Collector) Match(r *Recovery) bool {
	c.Register(r)

	return false
}

// Recoveries returns the offered recoveries in order.
func (c *Collector) Recoveries() []*Recovery {
	return slices.Clone(c.entries)
}

// RecordArguments stores the arguments of the last invocation of one of
// the collector's recoveries.
func (c *Collector) RecordArguments(args []any) {
	c.args = slices.Clone(args)
}

// LastArguments returns the arguments stored by RecordArguments.
func (c *Collector) LastArguments() []any {
	return slices.Clone(c.args)
}

// find returns the first offered recovery whose kind descends from k.
func (c *Collector) find(k *Kind) *Recovery {
	for _, r := range c.entries {
		if r.kind.Is(k) {
			return r
		}
	}

	return nil
}
