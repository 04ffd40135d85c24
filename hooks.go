package r6y

// Hooks holds optional callback functions for condition lifecycle events.
// All fields are nil by default; callers set only the hooks they care
// about. Once passed to [WithHooks], a Hooks value must not be mutated.
//
// Pattern: Observer. Decouples event emission from consumers (logging,
// metrics) without the condition machinery knowing about them.
type Hooks struct {
	OnRaise           func(c *Condition)
	OnUnhandled       func(c *Condition)
	OnRecover         func(r *Recovery, args []any)
	OnMissingRecovery func(chosen *Kind, cause error)
	OnSignalIgnored   func(err error)
	OnSignalSkipped   func(err error)
	OnRetry           func(attempt int, err error)
	OnFallbackUsed    func(err error)
}

// ChainHooks returns hooks calling every non-nil hook of hs in order.
func ChainHooks(hs ...Hooks) Hooks {
	return Hooks{
		OnRaise: func(c *Condition) {
			for i := range hs {
				hs[i].emitRaise(c)
			}
		},
		OnUnhandled: func(c *Condition) {
			for i := range hs {
				hs[i].emitUnhandled(c)
			}
		},
		OnRecover: func(r *Recovery, args []any) {
			for i := range hs {
				hs[i].emitRecover(r, args)
			}
		},
		OnMissingRecovery: func(chosen *Kind, cause error) {
			for i := range hs {
				hs[i].emitMissingRecovery(chosen, cause)
			}
		},
		OnSignalIgnored: func(err error) {
			for i := range hs {
				hs[i].emitSignalIgnored(err)
			}
		},
		OnSignalSkipped: func(err error) {
			for i := range hs {
				hs[i].emitSignalSkipped(err)
			}
		},
		OnRetry: func(attempt int, err error) {
			for i := range hs {
				hs[i].emitRetry(attempt, err)
			}
		},
		OnFallbackUsed: func(err error) {
			for i := range hs {
				hs[i].emitFallbackUsed(err)
			}
		},
	}
}

func (h *Hooks) emitRaise(c *Condition) {
	if h.OnRaise != nil {
		h.OnRaise(c)
	}
}

func (h *Hooks) emitUnhandled(c *Condition) {
	if h.OnUnhandled != nil {
		h.OnUnhandled(c)
	}
}

func (h *Hooks) emitRecover(r *Recovery, args []any) {
	if h.OnRecover != nil {
		h.OnRecover(r, args)
	}
}

func (h *Hooks) emitMissingRecovery(chosen *Kind, cause error) {
	if h.OnMissingRecovery != nil {
		h.OnMissingRecovery(chosen, cause)
	}
}

func (h *Hooks) emitSignalIgnored(err error) {
	if h.OnSignalIgnored != nil {
		h.OnSignalIgnored(err)
	}
}

func (h *Hooks) emitSignalSkipped(err error) {
	if h.OnSignalSkipped != nil {
		h.OnSignalSkipped(err)
	}
}

func (h *Hooks) emitRetry(attempt int, err error) {
	if h.OnRetry != nil {
		h.OnRetry(attempt, err)
	}
}

func (h *Hooks) emitFallbackUsed(err error) {
	if h.OnFallbackUsed != nil {
		h.OnFallbackUsed(err)
	}
}
