package desim

import "fmt"

// ErrorKind discriminates the taxonomy in spec.md §7.
type ErrorKind string

// The error kinds named by spec.md §7.
const (
	ErrDuplicateObjectName   ErrorKind = "duplicate_object_name"
	ErrUnknownReceiver       ErrorKind = "unknown_receiver"
	ErrUnknownObject         ErrorKind = "unknown_object"
	ErrUndeclaredSentVariant ErrorKind = "undeclared_sent_variant"
	ErrNoHandlerForVariant   ErrorKind = "no_handler_for_variant"
	ErrNegativeDelay         ErrorKind = "negative_delay"
	ErrPastScheduling        ErrorKind = "past_scheduling"
	ErrNotInitialized        ErrorKind = "not_initialized"
	ErrAlreadyRunning        ErrorKind = "already_running"
	ErrUserHandlerError      ErrorKind = "user_handler_error"
)

// SchedulingError is returned synchronously from SendEvent/SendEventAt (and
// from lifecycle calls like AddObject/Run) when a request violates one of
// the core's invariants. It aborts the enclosing handler the way spec.md §7
// requires — the call that returns it has made no change to the heap.
type SchedulingError struct {
	Kind ErrorKind

	// Context fields, populated depending on Kind.
	ObjectName string
	Variant    Kind
	Delay      Time
	Now        Time
	ReceiveAt  Time
}

func (e *SchedulingError) Error() string {
	switch e.Kind {
	case ErrDuplicateObjectName:
		return fmt.Sprintf("duplicate object name %q", e.ObjectName)
	case ErrUnknownReceiver:
		return fmt.Sprintf("unknown receiver %q", e.ObjectName)
	case ErrUnknownObject:
		return fmt.Sprintf("unknown object %q", e.ObjectName)
	case ErrUndeclaredSentVariant:
		return fmt.Sprintf(
			"%q sent undeclared message variant %q", e.ObjectName, e.Variant)
	case ErrNegativeDelay:
		return fmt.Sprintf("negative delay %v", e.Delay)
	case ErrPastScheduling:
		return fmt.Sprintf(
			"cannot schedule at %v: current time is %v", e.ReceiveAt, e.Now)
	case ErrNotInitialized:
		return "simulator: Run called before Initialize"
	case ErrAlreadyRunning:
		return "simulator: Run called while already running"
	default:
		return fmt.Sprintf("scheduling error: %s", e.Kind)
	}
}

// Is enables errors.Is against the IsXxx sentinels below, e.g.
// errors.Is(err, desim.IsPastScheduling) — a consumer doesn't need to know
// this is a *SchedulingError to branch on the kind.
func (e *SchedulingError) Is(target error) bool {
	s, ok := target.(*sentinelError)
	if !ok {
		return false
	}

	return e.Kind == s.kind
}

// DispatchError aborts a Run: a fatal error encountered while delivering a
// frontier to its receiver. It is attached to RunSummary.Err and surfaces
// in RunSummary.TerminationReason as TerminationError.
type DispatchError struct {
	Kind ErrorKind

	ObjectName string
	Variant    Kind
	Cause      error // populated for ErrUserHandlerError
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case ErrNoHandlerForVariant:
		return fmt.Sprintf(
			"object %q has no handler for variant %q", e.ObjectName, e.Variant)
	case ErrUserHandlerError:
		return fmt.Sprintf(
			"handler on %q returned an error: %v", e.ObjectName, e.Cause)
	default:
		return fmt.Sprintf("dispatch error: %s", e.Kind)
	}
}

// Unwrap exposes the underlying user error, if any, to errors.Is/As.
func (e *DispatchError) Unwrap() error { return e.Cause }

// Is enables errors.Is against the IsXxx sentinels below.
func (e *DispatchError) Is(target error) bool {
	s, ok := target.(*sentinelError)
	if !ok {
		return false
	}

	return e.Kind == s.kind
}

// Sentinels usable with errors.Is(err, desim.IsPastScheduling) etc.
var (
	IsPastScheduling        error = &sentinelError{ErrPastScheduling}
	IsUnknownReceiver       error = &sentinelError{ErrUnknownReceiver}
	IsUndeclaredSentVariant error = &sentinelError{ErrUndeclaredSentVariant}
	IsNegativeDelay         error = &sentinelError{ErrNegativeDelay}
	IsDuplicateObjectName   error = &sentinelError{ErrDuplicateObjectName}
	IsUnknownObject         error = &sentinelError{ErrUnknownObject}
	IsNotInitialized        error = &sentinelError{ErrNotInitialized}
	IsAlreadyRunning        error = &sentinelError{ErrAlreadyRunning}
	IsNoHandlerForVariant   error = &sentinelError{ErrNoHandlerForVariant}
	IsUserHandlerError      error = &sentinelError{ErrUserHandlerError}
)

type sentinelError struct{ kind ErrorKind }

func (s *sentinelError) Error() string { return string(s.kind) }
