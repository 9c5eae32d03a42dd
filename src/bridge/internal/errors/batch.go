package errors

import (
	stderr "errors"
	"fmt"
)

// SymbolNotFoundError indicates that no declaration matched the requested symbol.
type SymbolNotFoundError struct {
	Name string
}

// Error is an implementation of the error interface.
func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("Symbol '%s' not found.", e.Name)
}

// NoEditsError indicates that a rename produced no text edits.
type NoEditsError struct {
	Name string
}

// Error is an implementation of the error interface.
func (e *NoEditsError) Error() string {
	return fmt.Sprintf("Rename of '%s' failed (no edits).", e.Name)
}

// ApplyEditError indicates that the edits of a rename could not be applied.
type ApplyEditError struct {
	Name string
	Err  error
}

// Error is an implementation of the error interface.
func (e *ApplyEditError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Rename of '%s' failed to apply.", e.Name)
	}
	return fmt.Sprintf("Rename of '%s' failed to apply: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ApplyEditError) Unwrap() error {
	return e.Err
}

// EditFailure stops a batch during the symbol edit phase.
type EditFailure struct {
	// Entry is the one-based index of the failing batch entry.
	Entry int
	Err   error
}

// Error is an implementation of the error interface.
func (e *EditFailure) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Entry, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EditFailure) Unwrap() error {
	return e.Err
}

// PersistFailure reports a file that could not be saved. It never stops a batch.
type PersistFailure struct {
	Path string
	Err  error
}

// Error is an implementation of the error interface.
func (e *PersistFailure) Error() string {
	return fmt.Sprintf("saving %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PersistFailure) Unwrap() error {
	return e.Err
}

// MoveFailure stops the file move phase of a batch.
type MoveFailure struct {
	Entry   int
	OldPath string
	NewPath string
	Err     error
}

// Error is an implementation of the error interface.
func (e *MoveFailure) Error() string {
	return fmt.Sprintf("entry %d: moving '%s' to '%s': %v", e.Entry, e.OldPath, e.NewPath, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MoveFailure) Unwrap() error {
	return e.Err
}

// IsFatalToBatch reports whether the error must stop the batch that produced it.
func IsFatalToBatch(e error) bool {
	var ef *EditFailure
	var mf *MoveFailure
	return stderr.As(e, &ef) || stderr.As(e, &mf) || IsBadRequest(e)
}
