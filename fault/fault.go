package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure. The set is closed; boundary layers are expected
// to switch over every value.
type Kind int

const (
	// Internal covers infrastructure failures that are none of the kinds below.
	Internal Kind = iota
	NotFound
	Forbidden
	InvalidTransition
	Validation
	ThresholdExceeded
	Conflict
	Unauthenticated
)

var kindNames = map[Kind]string{
	Internal:          "Internal",
	NotFound:          "NotFound",
	Forbidden:         "Forbidden",
	InvalidTransition: "InvalidTransition",
	Validation:        "ValidationError",
	ThresholdExceeded: "ThresholdExceeded",
	Conflict:          "Conflict",
	Unauthenticated:   "Unauthenticated",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Internal, NotFound, Forbidden, InvalidTransition, Validation, ThresholdExceeded, Conflict, Unauthenticated}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Retryable reports whether the same call may succeed without the caller
// correcting anything. Only Conflict qualifies, and only after a reload.
func (k Kind) Retryable() bool { return k == Conflict }

// Error is the typed failure returned by every engine operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Peak is the simulated peak occupancy ratio, set for ThresholdExceeded.
	Peak float64
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Kind == ThresholdExceeded {
		sb.WriteString(fmt.Sprintf(" (peak %.2f)", e.Peak))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, fault.ErrConflict)
// works regardless of message or op.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrInternal          = &Error{Kind: Internal}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrForbidden         = &Error{Kind: Forbidden}
	ErrInvalidTransition = &Error{Kind: InvalidTransition}
	ErrValidation        = &Error{Kind: Validation}
	ErrThresholdExceeded = &Error{Kind: ThresholdExceeded}
	ErrConflict          = &Error{Kind: Conflict}
	ErrUnauthenticated   = &Error{Kind: Unauthenticated}
)

// New returns an error of the given kind.
func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and op to a lower-level error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Threshold returns a ThresholdExceeded error carrying the peak ratio.
func Threshold(op string, peak float64, threshold int) *Error {
	return &Error{Kind: ThresholdExceeded, Op: op, Peak: peak,
		Message: fmt.Sprintf("team occupancy exceeds %d%%", threshold)}
}

// KindOf returns the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind. A nil error carries no kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PeakOf returns the peak ratio carried by a ThresholdExceeded error.
func PeakOf(err error) (float64, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == ThresholdExceeded {
		return e.Peak, true
	}
	return 0, false
}
