// Package academic holds the term-calendar and attendance rules shared by the
// admin and tutor views: which semester of a batch is active, which semester
// dates may still be edited, exception-day collisions, and the daily
// distinct-student leave/OD series. Everything here is pure; callers fetch the
// rows and pass "today" explicitly.
package academic

import (
	"fmt"
	"time"

	pkgerrors "od-portal/backend/pkg/errors"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Day drops the clock part of t, keeping the calendar date as seen in t's own
// location, and returns it as UTC midnight so dates compare by value.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Interval inclusive whole-day range. Start after End means empty.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalizes both ends to whole days
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: Day(start), End: Day(end)}
}

// Empty reports whether the interval holds no day
func (iv Interval) Empty() bool {
	return iv.Start.After(iv.End)
}

// Days number of calendar days, both ends included
func (iv Interval) Days() int {
	if iv.Empty() {
		return 0
	}
	return daysBetween(iv.Start, iv.End) + 1
}

// daysBetween whole calendar days from a to b. Counted on Unix seconds since
// time.Duration overflows past about 292 years.
func daysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Contains reports whether the calendar day of d lies inside the interval
func (iv Interval) Contains(d time.Time) bool {
	day := Day(d)
	return !day.Before(iv.Start) && !day.After(iv.End)
}

// Each calls fn for every day in ascending order
func (iv Interval) Each(fn func(day time.Time)) {
	for d := iv.Start; !d.After(iv.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// MaxAggregationDays longest interval a daily series or report may cover:
// four academic years, i.e. eight semesters
const MaxAggregationDays = 4 * 366

// Validate rejects an inverted interval
func (iv Interval) Validate() error {
	if iv.Empty() {
		return &pkgerrors.ValidationError{Reason: "start date is after end date"}
	}
	return nil
}

// ValidateAggregation rejects an inverted interval or one longer than
// MaxAggregationDays
func (iv Interval) ValidateAggregation() error {
	if err := iv.Validate(); err != nil {
		return err
	}
	if iv.Days() > MaxAggregationDays {
		return &pkgerrors.ValidationError{
			Reason: fmt.Sprintf("date range spans more than %d days, narrow the dates", MaxAggregationDays),
		}
	}
	return nil
}
