// Package coreerr defines the error kinds raised throughout the
// typed-object evaluation core. Every kind is a distinct, comparable
// sentinel so callers can test for it with errors.Is while still getting a
// human-readable, operand-quoting message.
package coreerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error conditions the core can raise.
type Kind int

const (
	// TypeMismatch: operands incompatible with the requested operation.
	TypeMismatch Kind = iota
	// UnknownMember: struct/union lacks the named member.
	UnknownMember
	// IncompleteType: size/alignment required of an incomplete type.
	IncompleteType
	// UnboundedIteration: iterating/length of an unknown-length array or pointer.
	UnboundedIteration
	// AddressNotMapped: reader cannot satisfy a byte range.
	AddressNotMapped
	// DivideByZero: integer / or % with a zero divisor.
	DivideByZero
	// InvalidConstruction: object constructed with both address and value, or neither where required.
	InvalidConstruction
	// NoAddress: address-of on a value object.
	NoAddress
	// SymbolNotFound: symbol resolver returned nothing.
	SymbolNotFound
	// UnterminatedString: read_c_string reached its limit without a NUL.
	UnterminatedString
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnknownMember:
		return "UnknownMember"
	case IncompleteType:
		return "IncompleteType"
	case UnboundedIteration:
		return "UnboundedIteration"
	case AddressNotMapped:
		return "AddressNotMapped"
	case DivideByZero:
		return "DivideByZero"
	case InvalidConstruction:
		return "InvalidConstruction"
	case NoAddress:
		return "NoAddress"
	case SymbolNotFound:
		return "SymbolNotFound"
	case UnterminatedString:
		return "UnterminatedString"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type raised by this module. It carries a Kind
// so callers can test with errors.Is(err, coreerr.Sentinel(kind)), plus a
// human message describing the specific failure.
type Error struct {
	Kind Kind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	if e.wrap != nil {
		return e.msg + ": " + e.wrap.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.wrap }

// Is reports whether target is a sentinel for the same Kind, so that
// errors.Is(err, coreerr.Sentinel(coreerr.DivideByZero)) works regardless of
// the specific message attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind that also wraps a lower-level
// error (e.g. an underlying read failure).
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), wrap: err}
}

// Sentinel returns a zero-message *Error of the given kind, suitable only as
// a target for errors.Is.
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// Is reports whether err (or any error it wraps) was raised with kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, Sentinel(kind))
}
