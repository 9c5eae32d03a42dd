package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// MissingActionError reports a message without a usable action field.
	MissingActionError = New("Missing or invalid action field")
	// NoRequestsError reports a batch without entries.
	NoRequestsError = New("batchRename has no requests")
)

// ProtocolError reports a message that could be decoded but not routed.
type ProtocolError struct {
	Msg string
}

// Error is an implementation of the error interface.
func (e *ProtocolError) Error() string {
	return e.Msg
}

// ValidationError reports a request rejected before any side effect was attempted.
type ValidationError struct {
	Msg string
}

// Error is an implementation of the error interface.
func (e *ValidationError) Error() string {
	return e.Msg
}

// IsBadRequest reports whether the error was caused by the content of the request itself.
func IsBadRequest(e error) bool {
	if stderr.Is(e, MissingActionError) || stderr.Is(e, NoRequestsError) {
		return true
	}
	var pe *ProtocolError
	var ve *ValidationError
	return stderr.As(e, &pe) || stderr.As(e, &ve)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderr.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderr.As(err, target)
}
