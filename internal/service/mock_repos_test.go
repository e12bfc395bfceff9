package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/model"
	"od-portal/backend/internal/repository"
	pkgerrors "od-portal/backend/pkg/errors"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	err      error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) add(s *model.Student) {
	m.students[s.StudentID] = s
}

func (m *mockStudentRepo) match(id string, f repository.StudentFilter) bool {
	s, ok := m.students[id]
	if !ok {
		return false
	}
	if f.Batch != nil && s.Batch != *f.Batch {
		return false
	}
	if f.TutorID != nil && (s.TutorID == nil || *s.TutorID != *f.TutorID) {
		return false
	}
	return true
}

func (m *mockStudentRepo) sortedIDs() []string {
	ids := make([]string, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, f repository.StudentFilter) ([]model.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Student
	for _, id := range m.sortedIDs() {
		if m.match(id, f) {
			result = append(result, *m.students[id])
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListIDs(_ context.Context, f repository.StudentFilter) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for _, id := range m.sortedIDs() {
		if m.match(id, f) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockStudentRepo) ListBatches(_ context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[int]bool{}
	var batches []int
	for _, s := range m.students {
		if !seen[s.Batch] {
			seen[s.Batch] = true
			batches = append(batches, s.Batch)
		}
	}
	sort.Ints(batches)
	return batches, nil
}

// ── Mock SemesterScheduleRepository ──

type mockScheduleRepo struct {
	rows map[[2]int]*model.SemesterSchedule
	err  error
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{rows: make(map[[2]int]*model.SemesterSchedule)}
}

func (m *mockScheduleRepo) put(batch, semester int, start, end *time.Time) {
	m.rows[[2]int{batch, semester}] = &model.SemesterSchedule{
		Batch: batch, Semester: semester, StartDate: start, EndDate: end,
		VersionedModel: model.VersionedModel{Version: 1},
	}
}

func (m *mockScheduleRepo) ListByBatch(_ context.Context, batch int) ([]model.SemesterSchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.SemesterSchedule
	for s := academic.FirstSemester; s <= academic.LastSemester; s++ {
		if r, ok := m.rows[[2]int{batch, s}]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) Get(_ context.Context, batch, semester int) (*model.SemesterSchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.rows[[2]int{batch, semester}]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Create(_ context.Context, row *model.SemesterSchedule) error {
	key := [2]int{row.Batch, row.Semester}
	if _, ok := m.rows[key]; ok {
		return pkgerrors.ErrOptimisticLock
	}
	if row.Version == 0 {
		row.Version = 1
	}
	cp := *row
	m.rows[key] = &cp
	return nil
}

func (m *mockScheduleRepo) Update(_ context.Context, row *model.SemesterSchedule) error {
	key := [2]int{row.Batch, row.Semester}
	stored, ok := m.rows[key]
	if !ok || stored.Version != row.Version {
		return pkgerrors.ErrOptimisticLock
	}
	row.Version++
	cp := *row
	m.rows[key] = &cp
	return nil
}

// ── Mock ExceptionDayRepository ──

type mockExceptionDayRepo struct {
	days map[string]*model.ExceptionDay
	seq  int
	err  error

	// concurrent is stored instead of the next created row, as if another
	// request registered the same date first
	concurrent *model.ExceptionDay
}

func newMockExceptionDayRepo() *mockExceptionDayRepo {
	return &mockExceptionDayRepo{days: make(map[string]*model.ExceptionDay)}
}

func (m *mockExceptionDayRepo) Create(_ context.Context, day *model.ExceptionDay) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.concurrent != nil {
		other := m.concurrent
		m.concurrent = nil
		m.put(other)
		return false, nil
	}
	m.put(day)
	return true, nil
}

// put stores day without the unique-date check, so tests can seed redundant rows
func (m *mockExceptionDayRepo) put(day *model.ExceptionDay) {
	m.seq++
	if day.ExceptionDayID == "" {
		day.ExceptionDayID = fmt.Sprintf("ex-%d", m.seq)
	}
	day.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
	cp := *day
	m.days[day.ExceptionDayID] = &cp
}

func (m *mockExceptionDayRepo) GetByID(_ context.Context, id string) (*model.ExceptionDay, error) {
	if d, ok := m.days[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExceptionDayRepo) GetByDate(_ context.Context, date time.Time) (*model.ExceptionDay, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.sorted() {
		if academic.Day(d.Date).Equal(academic.Day(date)) {
			cp := d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExceptionDayRepo) List(_ context.Context, from, to *time.Time) ([]model.ExceptionDay, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.ExceptionDay
	for _, d := range m.sorted() {
		if from != nil && d.Date.Before(academic.Day(*from)) {
			continue
		}
		if to != nil && d.Date.After(academic.Day(*to)) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (m *mockExceptionDayRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.days[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.days, id)
	return nil
}

func (m *mockExceptionDayRepo) sorted() []model.ExceptionDay {
	out := make([]model.ExceptionDay, 0, len(m.days))
	for _, d := range m.days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ── Mock Leave / OD RequestRepository ──

type mockSpan struct {
	studentID  string
	start, end time.Time
	status     string
}

type mockRequestStore struct {
	spans    []mockSpan
	students *mockStudentRepo
	err      error
}

func (m *mockRequestStore) approved(f repository.SpanFilter) ([]model.RequestSpan, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.RequestSpan
	for _, sp := range m.spans {
		if sp.status != model.StatusApproved || !m.students.match(sp.studentID, f.Students) {
			continue
		}
		if f.From != nil && sp.end.Before(*f.From) {
			continue
		}
		if f.To != nil && sp.start.After(*f.To) {
			continue
		}
		result = append(result, model.RequestSpan{StudentID: sp.studentID, StartDate: sp.start, EndDate: sp.end})
	}
	return result, nil
}

type mockLeaveRepo struct {
	mockRequestStore
	created []*model.LeaveRequest
}

func (m *mockLeaveRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	if m.err != nil {
		return m.err
	}
	req.LeaveRequestID = fmt.Sprintf("leave-%d", len(m.created)+1)
	m.created = append(m.created, req)
	return nil
}

func (m *mockLeaveRepo) ListByStudent(_ context.Context, studentID string) ([]model.LeaveRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.LeaveRequest
	for _, r := range m.created {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRepo) ListApprovedSpans(_ context.Context, f repository.SpanFilter) ([]model.RequestSpan, error) {
	return m.approved(f)
}

type mockODRepo struct {
	mockRequestStore
	created []*model.ODRequest
}

func (m *mockODRepo) Create(_ context.Context, req *model.ODRequest) error {
	if m.err != nil {
		return m.err
	}
	req.ODRequestID = fmt.Sprintf("od-%d", len(m.created)+1)
	m.created = append(m.created, req)
	return nil
}

func (m *mockODRepo) ListByStudent(_ context.Context, studentID string) ([]model.ODRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.ODRequest
	for _, r := range m.created {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockODRepo) ListApprovedSpans(_ context.Context, f repository.SpanFilter) ([]model.RequestSpan, error) {
	return m.approved(f)
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	daily   []repository.DailyCountRow
	summary []repository.StudentSummaryRow
	err     error
	calls   int
}

func (m *mockAttendanceRepo) DailyCounts(_ context.Context, _ academic.Interval, _ repository.StudentFilter) ([]repository.DailyCountRow, error) {
	m.calls++
	return m.daily, m.err
}

func (m *mockAttendanceRepo) StudentSummary(_ context.Context, _ repository.StudentFilter) ([]repository.StudentSummaryRow, error) {
	m.calls++
	return m.summary, m.err
}

// ── fixture ──

type mockStore struct {
	students   *mockStudentRepo
	schedules  *mockScheduleRepo
	days       *mockExceptionDayRepo
	leaves     *mockLeaveRepo
	ods        *mockODRepo
	attendance *mockAttendanceRepo
}

func newMockStore() (*mockStore, *repository.Repository) {
	students := newMockStudentRepo()
	st := &mockStore{
		students:   students,
		schedules:  newMockScheduleRepo(),
		days:       newMockExceptionDayRepo(),
		leaves:     &mockLeaveRepo{mockRequestStore: mockRequestStore{students: students}},
		ods:        &mockODRepo{mockRequestStore: mockRequestStore{students: students}},
		attendance: &mockAttendanceRepo{},
	}
	repo := &repository.Repository{
		Student:      st.students,
		Schedule:     st.schedules,
		ExceptionDay: st.days,
		Leave:        st.leaves,
		OD:           st.ods,
		Attendance:   st.attendance,
	}
	return st, repo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
