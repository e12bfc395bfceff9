package academic

import (
	"sort"
	"strings"
	"time"

	pkgerrors "od-portal/backend/pkg/errors"
)

// ExceptionDay an administrator-declared date on which no new leave or OD
// request may be filed
type ExceptionDay struct {
	Date        time.Time
	Reason      string
	Description string
}

// IsDateBlocked date-only match against the exception days
func IsDateBlocked(date time.Time, days []ExceptionDay) bool {
	d := Day(date)
	for _, ex := range days {
		if Day(ex.Date).Equal(d) {
			return true
		}
	}
	return false
}

// ValidateRequestRange checks every day of [start, end] against the exception
// days. A collision yields a *ValidationError listing each colliding date once
// with its reasons; an inverted range is rejected as well. The check only
// guards new requests and says nothing about already approved ones.
func ValidateRequestRange(start, end time.Time, days []ExceptionDay) error {
	iv := NewInterval(start, end)
	if err := iv.Validate(); err != nil {
		return err
	}

	reasons := make(map[time.Time][]string)
	for _, ex := range days {
		d := Day(ex.Date)
		if !iv.Contains(d) {
			continue
		}
		if !containsString(reasons[d], ex.Reason) {
			reasons[d] = append(reasons[d], ex.Reason)
		}
	}
	if len(reasons) == 0 {
		return nil
	}

	collisions := make([]pkgerrors.Collision, 0, len(reasons))
	for d, rs := range reasons {
		collisions = append(collisions, pkgerrors.Collision{Date: d, Reason: strings.Join(rs, "; ")})
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Date.Before(collisions[j].Date)
	})

	return &pkgerrors.ValidationError{
		Reason:     "request range includes exception days",
		Collisions: collisions,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
