package service

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/model"
)

// ── exception day iCalendar feed ──
//
// Import reads all-day VEVENTs (public holiday calendars) into exception days:
//   - SUMMARY becomes the reason, DESCRIPTION the description
//   - DTEND is exclusive; a missing DTEND means a single day
//   - timed events count for the calendar day they start on
//   - a date listed twice keeps its first event
// Export writes one all-day VEVENT per exception day.

const (
	// ICSMaxFileSize largest accepted upload; bigger files are rejected whole
	ICSMaxFileSize  = 2 * 1024 * 1024
	icsMaxEventDays = 31
	icsProductID    = "-//od-portal//exception days//EN"
)

// uidNamespace keeps exported UIDs stable per exception day
var uidNamespace = uuid.MustParse("6f1c2a8e-52d4-4a4b-9f43-3a0f2b9d7c11")

// ParseExceptionDayICS parses an iCalendar stream into exception days
func ParseExceptionDayICS(reader io.Reader, loc *time.Location) ([]model.ExceptionDay, error) {
	raw, err := io.ReadAll(io.LimitReader(reader, ICSMaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read iCalendar: %w", err)
	}
	if len(raw) > ICSMaxFileSize {
		return nil, ErrICSTooLarge
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse iCalendar: %w", err)
	}

	seen := make(map[time.Time]bool)
	var days []model.ExceptionDay
	for _, evt := range cal.Events() {
		reason := propertyValue(evt, ics.ComponentPropertySummary)
		if reason == "" {
			continue
		}
		start, err := parseICSDate(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}
		end := start
		if dtEnd, err := parseICSDate(evt, ics.ComponentPropertyDtEnd, loc); err == nil && dtEnd.After(start) {
			end = dtEnd.AddDate(0, 0, -1)
		}
		if n := academic.NewInterval(start, end).Days(); n == 0 || n > icsMaxEventDays {
			continue
		}

		description := propertyValue(evt, ics.ComponentPropertyDescription)
		academic.NewInterval(start, end).Each(func(d time.Time) {
			if seen[d] {
				return
			}
			seen[d] = true
			days = append(days, model.ExceptionDay{Date: d, Reason: truncate(reason, 200), Description: description})
		})
	}
	return days, nil
}

// BuildExceptionDayICS serializes exception days as an iCalendar feed
func BuildExceptionDayICS(days []model.ExceptionDay, calendarName string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(calendarName)

	for _, d := range days {
		uid := uuid.NewSHA1(uidNamespace, []byte(d.ExceptionDayID+"/"+academic.FormatDate(d.Date))).String()
		evt := cal.AddEvent(uid + "@od-portal")
		evt.SetDtStampTime(now.UTC())
		evt.SetAllDayStartAt(academic.Day(d.Date))
		evt.SetAllDayEndAt(academic.Day(d.Date).AddDate(0, 0, 1))
		evt.SetSummary(d.Reason)
		if d.Description != "" {
			evt.SetDescription(d.Description)
		}
	}
	return cal.Serialize()
}

func propertyValue(evt *ics.VEvent, name ics.ComponentProperty) string {
	prop := evt.GetProperty(name)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

// parseICSDate calendar date of a DTSTART/DTEND value in loc
func parseICSDate(evt *ics.VEvent, name ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", name)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(layout, "Z"):
			t = t.In(loc)
		case tzid != "":
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc)
			}
		}
		return academic.Day(t), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", val)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
