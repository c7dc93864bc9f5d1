package mcerror

import "fmt"

// Error is the error type used for faults raised inside minesharp itself,
// so that they can be told apart from errors bubbled up from dependencies.
type Error struct {
	Err string
}

func New(format string, args ...interface{}) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
