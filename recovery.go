package r6y

import (
	"slices"

	json "github.com/goccy/go-json"
)

type (
	// Recovery is an alternative continuation attached to a condition.
	// Invoking a recovery bound to a live raise frame makes that raise
	// return the recovery's value instead of unwinding further.
	//
	// A Recovery belongs to a single goroutine's [Env]; it is not safe for
	// concurrent use.
	Recovery struct {
		kind       *Kind
		id         string
		summary    string
		discussion string
		data       any
		options    map[string]any
		action     func(args ...any) any

		frame     *frame
		collector *Collector

		args  []any
		count int
	}

	// RecoveryOption configures a [Recovery].
	RecoveryOption func(*Recovery)

	// recoveryJSON is the wire shape of a Recovery listing entry.
	recoveryJSON struct {
		Kind       string `json:"kind"`
		ID         string `json:"id,omitempty"`
		Summary    string `json:"summary,omitempty"`
		Discussion string `json:"discussion,omitempty"`
		Count      int    `json:"count"`
		Bound      bool   `json:"bound"`
	}
)

// WithSummary overrides the kind's summary for this recovery.
func WithSummary(s string) RecoveryOption {
	return func(r *Recovery) {
		r.summary = s
	}
}

// WithDiscussion overrides the kind's discussion for this recovery.
func WithDiscussion(s string) RecoveryOption {
	return func(r *Recovery) {
		r.discussion = s
	}
}

// WithData attaches arbitrary raise-site data for handlers to inspect.
func WithData(v any) RecoveryOption {
	return func(r *Recovery) {
		r.data = v
	}
}

// WithAction sets the code run at the raise site when the recovery is
// invoked. Its result becomes the value returned by the raise call.
// Without an action the raise returns the invocation arguments.
func WithAction(fn func(args ...any) any) RecoveryOption {
	return func(r *Recovery) {
		r.action = fn
	}
}

// NewRecovery creates a recovery of the given kind. A nil kind means
// [KindRecovery].
func NewRecovery(kind *Kind, opts ...RecoveryOption) *Recovery {
	if kind == nil {
		kind = KindRecovery
	}

	r := &Recovery{kind: kind}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Continuing creates a recovery of [KindContinuing].
func Continuing(opts ...RecoveryOption) *Recovery {
	return NewRecovery(KindContinuing, opts...)
}

// Ignoring creates a recovery of [KindIgnoring].
func Ignoring(opts ...RecoveryOption) *Recovery {
	return NewRecovery(KindIgnoring, opts...)
}

// Kind returns the recovery's kind.
func (r *Recovery) Kind() *Kind { return r.kind }

// ID returns the identifier of a recovery registered with
// [Condition.SetRecovery], or "".
func (r *Recovery) ID() string { return r.id }

// Name returns the identifier if set, else the kind name.
func (r *Recovery) Name() string {
	if r.id != "" {
		return r.id
	}

	return r.kind.Name()
}

// Summary returns the recovery's summary, falling back to its kind's.
func (r *Recovery) Summary() string {
	if r.summary != "" {
		return r.summary
	}

	return r.kind.Summary()
}

// Discussion returns the recovery's discussion, falling back to its kind's.
func (r *Recovery) Discussion() string {
	if r.discussion != "" {
		return r.discussion
	}

	return r.kind.Discussion()
}

// SetSummary overrides the summary.
func (r *Recovery) SetSummary(s string) { r.summary = s }

// SetDiscussion overrides the discussion.
func (r *Recovery) SetDiscussion(s string) { r.discussion = s }

// Data returns the data attached with [WithData].
func (r *Recovery) Data() any { return r.data }

// Args returns a copy of the arguments of the last invocation.
func (r *Recovery) Args() []any { return slices.Clone(r.args) }

// Count returns how many times the recovery has been invoked.
func (r *Recovery) Count() int { return r.count }

// Bound reports whether the recovery holds a live resumption.
func (r *Recovery) Bound() bool {
	return r.frame != nil && !r.frame.done
}

// Site returns the id of the raise frame the recovery is bound to, or "".
func (r *Recovery) Site() string {
	if r.frame == nil {
		return ""
	}

	return r.frame.id
}

// Invoke resumes the raise call the recovery is bound to with args.
// On success it does not return. It returns nil without doing anything when
// the recovery was never attached to a raised condition, and
// [ErrResumptionExpired] when that raise call already finished.
func (r *Recovery) Invoke(args ...any) error {
	f := r.frame
	if f == nil {
		return nil
	}

	if f.done {
		return ErrResumptionExpired
	}

	r.record(f.env, args)

	panic(&resumption{frame: f, recovery: r, args: args})
}

func (r *Recovery) String() string {
	return r.Name() + ": " + r.Summary()
}

// MarshalJSON encodes the recovery as a listing entry.
func (r *Recovery) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // encoding errors are returned as-is
	return json.Marshal(recoveryJSON{
		Kind:       r.kind.Name(),
		ID:         r.id,
		Summary:    r.Summary(),
		Discussion: r.Discussion(),
		Count:      r.count,
		Bound:      r.Bound(),
	})
}

// record performs the invocation bookkeeping shared by every resume path.
func (r *Recovery) record(env *Env, args []any) {
	r.count++
	r.args = slices.Clone(args)

	if r.collector != nil {
		r.collector.RecordArguments(args)
	}

	env.last = r
	env.hooks.emitRecover(r, args)
}

// resume computes the value the raise call returns.
func (r *Recovery) resume(args []any) any {
	if r.action != nil {
		return r.action(args...)
	}

	return echo(args)
}

// apply invokes the recovery in place, without any raise frame.
func (r *Recovery) apply(env *Env, args []any) any {
	r.record(env, args)

	return r.resume(args)
}

func echo(args []any) any {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	default:
		return slices.Clone(args)
	}
}
