// Package cerr represents the core layer errors. It classifies every
// error the mirror engine can return into one of a closed set of Kind
// values, so callers can branch with errors.Is instead of string
// matching.
package cerr

import "fmt"

// Kind classifies an Error. Each Kind corresponds to exactly one of the
// failure conditions that the mirror engine components may raise.
type Kind string

// The complete error taxonomy. Every error this module raises for one
// of these conditions carries its kind; failures of the underlying
// store or of file and YAML reading are returned as plain wrapped
// errors with no kind.
const (
	KindIncompatibleStore  Kind = "IncompatibleStore"
	KindUnsafeIdentifier   Kind = "UnsafeIdentifier"
	KindSchemaError        Kind = "SchemaError"
	KindUnknownType        Kind = "UnknownType"
	KindNonObjectType      Kind = "NonObjectType"
	KindUnknownField       Kind = "UnknownField"
	KindNotAConnection     Kind = "NotAConnection"
	KindTypeConflict       Kind = "TypeConflict"
	KindUnknownConnection  Kind = "UnknownConnection"
	KindUnknownUpdate      Kind = "UnknownUpdate"
	KindAlreadyInTxn       Kind = "AlreadyInTransaction"
	KindInvariantViolation Kind = "InvariantViolation"
)

// Error wraps an inner error Err with the Kind that classifies it.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
}

// Unwrap returns the wrapped inner error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so
// sentinel comparisons like errors.Is(err, cerr.Sentinel(cerr.KindTypeConflict))
// work without constructing a matching inner error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New wraps err with the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Sentinel returns a bare *Error of the given kind with no meaningful
// wrapped cause, suitable as the target of errors.Is comparisons.
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf("%s", kind)}
}

// IncompatibleStore wraps err as a KindIncompatibleStore error.
func IncompatibleStore(err error) *Error { return New(KindIncompatibleStore, err) }

// UnsafeIdentifier wraps err as a KindUnsafeIdentifier error.
func UnsafeIdentifier(err error) *Error { return New(KindUnsafeIdentifier, err) }

// SchemaError wraps err as a KindSchemaError error.
func SchemaError(err error) *Error { return New(KindSchemaError, err) }

// UnknownType wraps err as a KindUnknownType error.
func UnknownType(err error) *Error { return New(KindUnknownType, err) }

// NonObjectType wraps err as a KindNonObjectType error.
func NonObjectType(err error) *Error { return New(KindNonObjectType, err) }

// UnknownField wraps err as a KindUnknownField error.
func UnknownField(err error) *Error { return New(KindUnknownField, err) }

// NotAConnection wraps err as a KindNotAConnection error.
func NotAConnection(err error) *Error { return New(KindNotAConnection, err) }

// TypeConflict wraps err as a KindTypeConflict error.
func TypeConflict(err error) *Error { return New(KindTypeConflict, err) }

// UnknownConnection wraps err as a KindUnknownConnection error.
func UnknownConnection(err error) *Error { return New(KindUnknownConnection, err) }

// UnknownUpdate wraps err as a KindUnknownUpdate error.
func UnknownUpdate(err error) *Error { return New(KindUnknownUpdate, err) }

// AlreadyInTransaction wraps err as a KindAlreadyInTxn error.
func AlreadyInTransaction(err error) *Error { return New(KindAlreadyInTxn, err) }

// InvariantViolation wraps err as a KindInvariantViolation error.
func InvariantViolation(err error) *Error { return New(KindInvariantViolation, err) }
