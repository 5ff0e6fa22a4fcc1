package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates malformed expression text.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownIdent indicates a name that is neither t, a constant, nor a function.
	ErrUnknownIdent = errors.New("unknown identifier")

	// ErrArity indicates a function called with the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

// Error describes a compile failure at a byte offset in the source text.
type Error struct {
	Pos int
	Msg string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Pos, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(pos int, kind error, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: kind}
}
