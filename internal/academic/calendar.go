package academic

import "time"

// A batch spans exactly eight sequential semesters
const (
	FirstSemester = 1
	LastSemester  = 8
)

// SemesterWindow one stored (batch, semester) schedule row.
// A window without Start is not yet scheduled.
type SemesterWindow struct {
	Batch    int
	Semester int
	Start    *time.Time
	End      *time.Time
}

// Scheduled reports whether a start date is recorded
func (w SemesterWindow) Scheduled() bool {
	return w.Start != nil
}

// Calendar the schedule rows of one batch, indexed by semester.
// Build a fresh one per read; it is never cached.
type Calendar struct {
	batch   int
	windows map[int]SemesterWindow
}

// NewCalendar indexes the rows belonging to batch. Rows of other batches and
// out-of-range semester numbers are ignored; for repeated semesters the last
// row wins.
func NewCalendar(batch int, windows []SemesterWindow) *Calendar {
	c := &Calendar{batch: batch, windows: make(map[int]SemesterWindow, LastSemester)}
	for _, w := range windows {
		if w.Batch != batch || !ValidSemester(w.Semester) {
			continue
		}
		c.windows[w.Semester] = w
	}
	return c
}

// ValidSemester reports whether s is within 1..8
func ValidSemester(s int) bool {
	return s >= FirstSemester && s <= LastSemester
}

// Batch enrollment year of the calendar
func (c *Calendar) Batch() int { return c.batch }

// Window returns the stored row for semester s
func (c *Calendar) Window(s int) (SemesterWindow, bool) {
	w, ok := c.windows[s]
	return w, ok
}

// ActiveSemester the semester the batch calendar says is running on today.
// It advances one step per elapsed predecessor end date; a missing end date
// stops advancement there. The result is always within 1..8.
func (c *Calendar) ActiveSemester(today time.Time) int {
	active := FirstSemester
	for s := FirstSemester; s < LastSemester; s++ {
		w, ok := c.windows[s]
		if !ok || w.End == nil {
			continue
		}
		if endElapsed(*w.End, today) {
			active = s + 1
		}
	}
	if active > LastSemester {
		active = LastSemester
	}
	return active
}

// IsLocked reports whether semester s dates are frozen for editing.
// Semester 1 is always editable; s > 1 opens only once semester s-1 has a
// recorded end date that has elapsed.
func (c *Calendar) IsLocked(s int, today time.Time) bool {
	if !ValidSemester(s) {
		return true
	}
	if s == FirstSemester {
		return false
	}
	prev, ok := c.windows[s-1]
	if !ok || prev.End == nil {
		return true
	}
	return !endElapsed(*prev.End, today)
}

// DateRange the recorded dates of semester s. ok is false when there is no
// row or no start date; End may still be nil for a scheduled semester.
func (c *Calendar) DateRange(s int) (SemesterRange, bool) {
	w, ok := c.windows[s]
	if !ok || w.Start == nil {
		return SemesterRange{}, false
	}
	r := SemesterRange{Start: Day(*w.Start)}
	if w.End != nil {
		end := Day(*w.End)
		r.End = &end
	}
	return r, true
}

// SemesterRange start and optional end of a scheduled semester
type SemesterRange struct {
	Start time.Time
	End   *time.Time
}

// Interval converts to a closed interval; ok is false while End is unknown
func (r SemesterRange) Interval() (Interval, bool) {
	if r.End == nil {
		return Interval{}, false
	}
	return NewInterval(r.Start, *r.End), true
}

// SemesterState one row of the batch overview
type SemesterState struct {
	Semester  int
	Start     *time.Time
	End       *time.Time
	Scheduled bool
	Locked    bool
	Active    bool
}

// States all eight semesters of the batch as of today
func (c *Calendar) States(today time.Time) []SemesterState {
	active := c.ActiveSemester(today)
	states := make([]SemesterState, 0, LastSemester)
	for s := FirstSemester; s <= LastSemester; s++ {
		st := SemesterState{
			Semester: s,
			Locked:   c.IsLocked(s, today),
			Active:   s == active,
		}
		if w, ok := c.windows[s]; ok {
			st.Start = w.Start
			st.End = w.End
			st.Scheduled = w.Scheduled()
		}
		states = append(states, st)
	}
	return states
}

// ActiveSemester is the function form of Calendar.ActiveSemester
func ActiveSemester(batch int, windows []SemesterWindow, today time.Time) int {
	return NewCalendar(batch, windows).ActiveSemester(today)
}

// IsSemesterLocked is the function form of Calendar.IsLocked
func IsSemesterLocked(batch, semester int, windows []SemesterWindow, today time.Time) bool {
	return NewCalendar(batch, windows).IsLocked(semester, today)
}

// SemesterDateRange is the function form of Calendar.DateRange
func SemesterDateRange(batch, semester int, windows []SemesterWindow) (SemesterRange, bool) {
	return NewCalendar(batch, windows).DateRange(semester)
}

// endElapsed: today >= end + 1 day, compared as calendar dates
func endElapsed(end, today time.Time) bool {
	return !Day(today).Before(Day(end).AddDate(0, 0, 1))
}
