package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidationError_ListsDates(t *testing.T) {
	err := &ValidationError{
		Reason: "request overlaps exception days",
		Collisions: []Collision{
			{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Reason: "Holiday"},
			{Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Reason: "Exam"},
		},
	}
	want := "request overlaps exception days: 2025-03-11, 2025-03-12"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	wrapped := fmt.Errorf("create leave: %w", err)
	ve, ok := IsValidation(wrapped)
	if !ok || len(ve.Collisions) != 2 {
		t.Error("IsValidation should unwrap the collisions")
	}
}

func TestUnavailable(t *testing.T) {
	if Unavailable("students", nil) != nil {
		t.Error("nil error should stay nil")
	}
	err := Unavailable("leave requests", context.DeadlineExceeded)
	if !IsDataUnavailable(err) {
		t.Error("expected a DataUnavailableError")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("the cause should stay reachable through Unwrap")
	}
}

func TestExportGenerationError(t *testing.T) {
	err := fmt.Errorf("report: %w", &ExportGenerationError{Format: "pdf", Err: errors.New("font missing")})
	if !IsExportGeneration(err) {
		t.Error("expected an ExportGenerationError")
	}
	if IsDataUnavailable(err) {
		t.Error("export errors are distinct from data errors")
	}
}
