package r6y

import (
	"slices"

	"github.com/google/uuid"
)

// Pattern: targeted unwind. Every non-local exit is a panic carrying a
// pointer to the frame that must stop it. Frames recover only their own
// token and re-panic anything else, so foreign panics pass through intact.

type (
	// frame is the resumption capability of one Raise call.
	frame struct {
		env  *Env
		id   string
		done bool
	}

	// resumption transfers control back to frame.
	resumption struct {
		frame    *frame
		recovery *Recovery
		args     []any
	}

	// handlerFrame is one handler established by Handle.
	handlerFrame struct {
		handle func(*Condition) (any, error)
	}

	// unwinding transfers a declining handler's result to its Handle.
	unwinding struct {
		target *handlerFrame
		value  any
		err    error
	}
)

// Raise signals err as a condition.
//
//  1. err is wrapped in a [Condition], or reused when it already is one.
//  2. configure functions run so the raiser can register recoveries.
//  3. the active collector's recoveries are merged after them and the
//     collector is cleared.
//  4. without any established handler, Raise returns (nil, condition).
//  5. otherwise the innermost handler runs here, with only the outer
//     handlers established. When the condition has recoveries, this call
//     is bound to every one of them lacking a live resumption.
//  6. if a recovery bound to this call is invoked, Raise returns its
//     value with a nil error. If the handler returns instead, control
//     unwinds to its [Handle] and Raise never returns.
func (e *Env) Raise(err error, configure ...func(*Condition)) (any, error) {
	c := NewCondition(err)

	for _, fn := range configure {
		if fn != nil {
			fn(c)
		}
	}

	if col := e.collector; col != nil {
		e.collector = nil
		c.merge(col)
	}

	e.hooks.emitRaise(c)

	if len(e.handlers) == 0 {
		e.hooks.emitUnhandled(c)

		return nil, c
	}

	hf := e.handlers[len(e.handlers)-1]

	if c.Len() == 0 {
		panic(e.dispatch(hf, c))
	}

	f := &frame{env: e, id: uuid.NewString()}
	c.bind(f)

	rs := e.await(f, hf, c)

	return rs.recovery.resume(rs.args), nil
}

// Value converts a raise result to T. A value of another type yields the
// zero T.
func Value[T any](v any, err error) (T, error) {
	t, _ := v.(T)

	return t, err
}

// Handle runs body with handler established. See [Env.Raise] for how the
// handler is called. A non-nil error returned by body is passed to handler
// too, as a condition nothing can resume.
func Handle[T any](env *Env, body func() (T, error), handler func(*Condition) (T, error)) (T, error) {
	hf := &handlerFrame{
		handle: func(c *Condition) (any, error) {
			return handler(c)
		},
	}

	var (
		result T
		err    error
	)

	if u := env.establish(hf, func() { result, err = body() }); u != nil {
		v, _ := u.value.(T)

		return v, u.err
	}

	if err == nil {
		return result, nil
	}

	c := NewCondition(err)
	env.pushActive(c)

	defer env.popActive()

	return handler(c)
}

// establish runs body with hf on top of the handler stack and returns the
// unwinding aimed at hf, if any.
func (e *Env) establish(hf *handlerFrame, body func()) (u *unwinding) {
	saved := e.handlers
	e.handlers = append(slices.Clip(e.handlers), hf)

	defer func() {
		e.handlers = saved

		if p := recover(); p != nil {
			if uw, ok := p.(*unwinding); ok && uw.target == hf {
				u = uw

				return
			}

			panic(p)
		}
	}()

	body()

	return nil
}

// await runs hf for c under f and returns the resumption aimed at f.
func (e *Env) await(f *frame, hf *handlerFrame, c *Condition) (rs *resumption) {
	defer func() {
		f.done = true

		if p := recover(); p != nil {
			if r, ok := p.(*resumption); ok && r.frame == f {
				rs = r

				return
			}

			panic(p)
		}
	}()

	panic(e.dispatch(hf, c))
}

// dispatch runs hf for c at the raise site, with only the handlers outside
// hf established, and returns the unwinding carrying its result.
func (e *Env) dispatch(hf *handlerFrame, c *Condition) *unwinding {
	saved := e.handlers

	idx := slices.Index(e.handlers, hf)
	if idx < 0 {
		idx = len(e.handlers)
	}

	e.handlers = slices.Clip(e.handlers[:idx])
	e.pushActive(c)

	defer func() {
		e.popActive()
		e.handlers = saved
	}()

	v, err := hf.handle(c)

	return &unwinding{target: hf, value: v, err: err}
}

func (e *Env) pushActive(c *Condition) {
	e.active = append(e.active, c)
}

func (e *Env) popActive() {
	e.active = e.active[:len(e.active)-1]
}
