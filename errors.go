package r6y

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------.

type (
	// ControlError identifies errors produced by the condition machinery
	// itself, as opposed to errors raised by application code.
	//nolint:iface // exported for consumer error classification.
	ControlError interface {
		error
		// IsControl reports whether this error originates from the
		// condition machinery.
		IsControl() bool
	}

	// MissingRecoveryError is raised by [Env.Recover] when the current
	// condition holds no recovery of the chosen kind. Handlers catch it
	// to choose again through the attached Retrying recovery.
	MissingRecoveryError struct {
		// Chosen is the kind that could not be resolved.
		Chosen *Kind
		// Cause is the condition that was active when resolution failed.
		Cause error
	}

	// ControlException is returned when a recovery is invoked by an
	// identifier that was never registered on the condition.
	ControlException struct {
		ID string
	}

	// permanentError marks a wrapped error as permanent (never restarted).
	permanentError struct {
		err error
	}

	// controlError is the concrete type backing all sentinel errors.
	controlError string
)

// Sentinel control errors.
var (
	// ErrNoActiveCondition is returned when a recovery is looked up
	// outside of any handler.
	ErrNoActiveCondition error = controlError("no active condition")
	// ErrResumptionExpired is returned when a recovery is invoked after
	// the raise call it was bound to has already returned or unwound.
	ErrResumptionExpired error = controlError("resumption expired")
	// ErrRetriesExhausted is returned when [Retry] ran out of attempts.
	ErrRetriesExhausted error = controlError("retries exhausted")
)

func (e controlError) Error() string { return "r6y: " + string(e) }

// IsControl reports whether the error is a condition machinery error.
func (controlError) IsControl() bool { return true }

func (e *MissingRecoveryError) Error() string {
	return fmt.Sprintf("r6y: no recovery of kind %s", e.Chosen)
}

// Unwrap returns the condition that was active when resolution failed.
func (e *MissingRecoveryError) Unwrap() error { return e.Cause }

// IsControl reports true.
func (*MissingRecoveryError) IsControl() bool { return true }

func (e *ControlException) Error() string {
	return fmt.Sprintf("r6y: no recovery registered for %q", e.ID)
}

// IsControl reports true.
func (*ControlException) IsControl() bool { return true }

func (e *permanentError) Error() string { return "permanent: " + e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that [Retry] never offers to restart after it.
// Returns nil if err is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// IsPermanent reports whether err was explicitly marked as permanent.
// Returns false for nil and for unclassified errors.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var pe *permanentError

	return errors.As(err, &pe)
}

// IsControl reports whether err, or any error it wraps, comes from the
// condition machinery.
func IsControl(err error) bool {
	var ce ControlError
	if !errors.As(err, &ce) {
		return false
	}

	return ce.IsControl()
}
