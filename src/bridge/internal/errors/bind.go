package errors

import (
	stderr "errors"
	"fmt"
	"syscall"
)

// BindError is a fatal startup failure of the listener.
type BindError struct {
	Port int
	Msg  string
	Err  error
}

// Error is an implementation of the error interface.
func (e *BindError) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Port == 0:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return fmt.Sprintf("%s on port %d: %v", e.Msg, e.Port, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *BindError) Unwrap() error {
	return e.Err
}

// IsRetryableBind reports whether a listen error is caused by contention for the port,
// in which case another port may be tried.
func IsRetryableBind(e error) bool {
	return stderr.Is(e, syscall.EADDRINUSE) || stderr.Is(e, syscall.EACCES)
}
