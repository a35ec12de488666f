package formula

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownName     = errors.New("unknown name")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrDomain          = errors.New("math domain error")
	ErrNonFinite       = errors.New("result is not a finite number")
)

// Error carries the failure class and the byte offset in the expression where
// it was detected (-1 for evaluation errors without a position).
type Error struct {
	Kind error
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%v at position %d: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func errAt(kind error, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
