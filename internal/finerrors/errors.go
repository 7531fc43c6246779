// Package finerrors defines the typed errors shared by the ledger core.
// Import errors fall into two classes with different blast radius: a
// FormatError aborts a whole CSV import before any write, while a
// ResolutionError only skips the row that raised it.
package finerrors

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ConflictError reports a write that collides with an existing row, such as
// a duplicate snapshot for the same account and date.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// InvalidRangeError reports a date range whose start is after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// FormatError reports a CSV line that fails to parse: wrong column count,
// bad date, or bad amount. It is always fatal to the whole import. Line is
// the 1-based line number in the uploaded file and Reason is the localized
// user-facing message.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Línea %d: %s", e.Line, e.Reason)
}

// ResolutionError reports a CSV row whose account or category name could not
// be resolved. It is always row-scoped and never aborts the batch. Field is
// the localized field name ("cuenta" or "categoría").
type ResolutionError struct {
	Line  int
	Field string
	Value string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Línea %d: %s \"%s\" no encontrada", e.Line, e.Field, e.Value)
}

// ValidationError reports a write rejected by the store, such as a broken
// referential constraint. During import it is row-scoped; elsewhere it is
// surfaced directly to the caller.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsFormat reports whether err is or wraps a FormatError.
func IsFormat(err error) bool {
	var f *FormatError
	return errors.As(err, &f)
}

// IsInvalidRange reports whether err is or wraps an InvalidRangeError.
func IsInvalidRange(err error) bool {
	var r *InvalidRangeError
	return errors.As(err, &r)
}
