package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrOptimisticLock the row was modified by another write since it was read
var ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")

// ── ValidationError ──

// Collision a requested day that falls on a declared exception day
type Collision struct {
	Date   time.Time
	Reason string
}

// ValidationError rejected input: an inverted interval or a request range
// overlapping exception days. Nothing is persisted when it is returned.
type ValidationError struct {
	Reason     string
	Collisions []Collision
}

func (e *ValidationError) Error() string {
	if len(e.Collisions) == 0 {
		return e.Reason
	}
	dates := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		dates = append(dates, c.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(dates, ", "))
}

// ── DataUnavailableError ──

// DataUnavailableError a store read (schedules, requests, exception days) failed
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps a fetch failure; nil stays nil.
func Unavailable(source string, err error) error {
	if err == nil {
		return nil
	}
	return &DataUnavailableError{Source: source, Err: err}
}

// ── ExportGenerationError ──

// ExportGenerationError a format renderer failed. The export attempt fails as a
// whole; no simpler format is tried automatically.
type ExportGenerationError struct {
	Format string
	Err    error
}

func (e *ExportGenerationError) Error() string {
	return fmt.Sprintf("generate %s export: %v", e.Format, e.Err)
}

func (e *ExportGenerationError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a *ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsDataUnavailable reports whether err carries a *DataUnavailableError
func IsDataUnavailable(err error) bool {
	var de *DataUnavailableError
	return errors.As(err, &de)
}

// IsExportGeneration reports whether err carries an *ExportGenerationError
func IsExportGeneration(err error) bool {
	var ee *ExportGenerationError
	return errors.As(err, &ee)
}
