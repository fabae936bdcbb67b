package object

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	UndefinedVariable ErrorKind = "UndefinedVariable"
	TypeMismatch      ErrorKind = "TypeMismatch"
	DivisionByZero    ErrorKind = "DivisionByZero"
	UndefinedFunction ErrorKind = "UndefinedFunction"
	IterationType     ErrorKind = "IterationType"
	StackOverflow     ErrorKind = "StackOverflow"
)

// RuntimeError stops a run. Statement names the kind of the failing statement.
type RuntimeError struct {
	Kind      ErrorKind
	Statement string
	Line      int
	Message   string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at line %d (%s): %s", e.Kind, e.Line, e.Statement, e.Message)
}

// Is matches another RuntimeError of the same kind, so errors.Is(err,
// &RuntimeError{Kind: DivisionByZero}) works on wrapped errors.
func (e *RuntimeError) Is(target error) bool {
	var other *RuntimeError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

func NewRuntimeError(kind ErrorKind, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// IsKind reports whether err carries a RuntimeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rt *RuntimeError
	return errors.As(err, &rt) && rt.Kind == kind
}
