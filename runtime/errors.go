package runtime

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind classifies interpreter faults. Faults terminate evaluation and are
// never caught by a script's try/catch.
type FaultKind int

const (
	UndefinedReference FaultKind = iota
	DuplicateDeclaration
	NotIterable
	NullDestructure
	SuperConstraint
	DuplicateMember
	UnsupportedFeature
	UnknownNode
	ConstAssignment
	StepLimit
	Canceled
)

var (
	ErrUndefinedReference   = errors.New("UndefinedReferenceError")
	ErrDuplicateDeclaration = errors.New("DuplicateDeclarationError")
	ErrNotIterable          = errors.New("NotIterableError")
	ErrNullDestructure      = errors.New("NullDestructureError")
	ErrSuperConstraint      = errors.New("SuperConstraintError")
	ErrDuplicateMember      = errors.New("DuplicateMemberError")
	ErrUnsupportedFeature   = errors.New("UnsupportedFeatureError")
	ErrUnknownNode          = errors.New("UnknownNodeError")
	ErrConstAssignment      = errors.New("ConstAssignmentError")
	ErrStepLimit            = errors.New("StepLimitError")
	ErrCanceled             = errors.New("CanceledError")
)

var faultSentinels = [...]error{
	UndefinedReference:   ErrUndefinedReference,
	DuplicateDeclaration: ErrDuplicateDeclaration,
	NotIterable:          ErrNotIterable,
	NullDestructure:      ErrNullDestructure,
	SuperConstraint:      ErrSuperConstraint,
	DuplicateMember:      ErrDuplicateMember,
	UnsupportedFeature:   ErrUnsupportedFeature,
	UnknownNode:          ErrUnknownNode,
	ConstAssignment:      ErrConstAssignment,
	StepLimit:            ErrStepLimit,
	Canceled:             ErrCanceled,
}

// Sentinel returns the error value errors.Is matches for this kind.
func (k FaultKind) Sentinel() error {
	if int(k) < 0 || int(k) >= len(faultSentinels) {
		return nil
	}
	return faultSentinels[k]
}

func (k FaultKind) String() string {
	if s := k.Sentinel(); s != nil {
		return s.Error()
	}
	return "Fault"
}

// FaultKindByName maps "NotIterableError" (or "NotIterable") to its kind.
func FaultKindByName(name string) (FaultKind, bool) {
	for i, s := range faultSentinels {
		if s.Error() == name || s.Error() == name+"Error" {
			return FaultKind(i), true
		}
	}
	return 0, false
}

// Fault is a non-catchable interpreter error.
type Fault struct {
	Kind   FaultKind
	Msg    string
	Line   int
	Column int
	cause  error
}

// NewFault builds a fault with a formatted message.
func NewFault(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapFault builds a fault that keeps cause reachable through errors.Is.
func WrapFault(kind FaultKind, cause error, format string, args ...any) *Fault {
	f := NewFault(kind, format, args...)
	f.cause = cause
	return f
}

func (f *Fault) Error() string {
	msg := f.Kind.String() + ": " + f.Msg
	if f.Line > 0 {
		msg += fmt.Sprintf(" (%d:%d)", f.Line, f.Column)
	}
	return msg
}

// Is matches the kind's sentinel, so errors.Is(err, ErrNotIterable) works on
// any wrapped fault.
func (f *Fault) Is(target error) bool {
	return target == f.Kind.Sentinel()
}

func (f *Fault) Unwrap() error { return f.cause }

// At records a source position if none is set yet.
func (f *Fault) At(line, column int) *Fault {
	if f.Line == 0 && line > 0 {
		f.Line, f.Column = line, column
	}
	return f
}

// HostError reports a failed host operation (calling a non-function, reading a
// property of null). The evaluator turns it into a catchable error object of
// the named type.
type HostError struct {
	Name string
	Msg  string
}

func (e *HostError) Error() string { return e.Name + ": " + e.Msg }

// TypeErrorf builds a HostError named TypeError.
func TypeErrorf(format string, args ...any) *HostError {
	return &HostError{Name: "TypeError", Msg: fmt.Sprintf(format, args...)}
}

// RangeErrorf builds a HostError named RangeError.
func RangeErrorf(format string, args ...any) *HostError {
	return &HostError{Name: "RangeError", Msg: fmt.Sprintf(format, args...)}
}

// Exception carries a value thrown by script code. It is the only error a
// try/catch handler receives.
type Exception struct {
	Value *Value
}

func (e *Exception) Error() string {
	return "Uncaught " + Inspect(e.Value)
}

// Throw wraps v as an Exception.
func Throw(v *Value) error {
	return &Exception{Value: v}
}

// AsException extracts a thrown value, if err is (or wraps) one.
func AsException(err error) (*Exception, bool) {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex, true
	}
	return nil, false
}

// IsFault reports whether err is (or wraps) an interpreter fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
