package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/model"
	"od-portal/backend/internal/repository"
	pkgerrors "od-portal/backend/pkg/errors"
	"od-portal/backend/pkg/jwt"
)

var (
	adminCaller = Caller{UserID: "admin-1", Role: jwt.RoleAdmin}
	tutorCaller = Caller{UserID: "tutor-1", Role: jwt.RoleTutor}
)

// two students of tutor-1 in batch 2022, one of tutor-2 in batch 2023;
// semester 5 of batch 2022 runs 2025-01-06..2025-04-30
func newAttendanceFixture() (*mockStore, *repository.Repository) {
	st, repo := newMockStore()
	st.students.add(&model.Student{StudentID: "a", Name: "Asha", Batch: 2022, Semester: 5, TutorID: strPtr("tutor-1")})
	st.students.add(&model.Student{StudentID: "b", Name: "Bala", Batch: 2022, Semester: 5, TutorID: strPtr("tutor-1"), Tutor: &model.Tutor{Name: "Dr. Rao"}})
	st.students.add(&model.Student{StudentID: "c", Name: "Chitra", Batch: 2023, Semester: 3, TutorID: strPtr("tutor-2")})

	st.schedules.put(2022, 4, datePtr(2024, 7, 1), datePtr(2024, 11, 30))
	st.schedules.put(2022, 5, datePtr(2025, 1, 6), datePtr(2025, 4, 30))
	st.schedules.put(2023, 3, datePtr(2025, 1, 6), nil)

	st.leaves.spans = []mockSpan{
		{studentID: "a", start: date(2025, 3, 10), end: date(2025, 3, 12), status: model.StatusApproved},
		{studentID: "a", start: date(2025, 3, 11), end: date(2025, 3, 11), status: model.StatusApproved},
		{studentID: "b", start: date(2025, 3, 11), end: date(2025, 3, 11), status: model.StatusPending},
		{studentID: "c", start: date(2025, 3, 11), end: date(2025, 3, 11), status: model.StatusApproved},
	}
	st.ods.spans = []mockSpan{
		{studentID: "b", start: date(2025, 3, 12), end: date(2025, 3, 13), status: model.StatusApproved},
	}
	st.days.Create(context.Background(), &model.ExceptionDay{Date: date(2025, 3, 14), Reason: "Holi"})
	return st, repo
}

var attendanceNow = fixedClock(time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))

func newTestAttendanceService(repo *repository.Repository) AttendanceService {
	calendar := NewTermCalendarService(repo, attendanceNow, time.UTC, zap.NewNop())
	return NewAttendanceService(repo, calendar, attendanceNow, time.UTC, time.Second, zap.NewNop())
}

func setupAttendance() (AttendanceService, *mockStore) {
	st, repo := newAttendanceFixture()
	return newTestAttendanceService(repo), st
}

// ── ResolveScope ──

func TestAttendance_ResolveScope(t *testing.T) {
	svc, _ := setupAttendance()
	ctx := context.Background()

	tests := []struct {
		name      string
		q         dto.AttendanceQuery
		active    bool
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{name: "explicit range", q: dto.AttendanceQuery{StartDate: "2025-03-01", EndDate: "2025-03-31"}, wantStart: "2025-03-01", wantEnd: "2025-03-31"},
		{name: "semester range", q: dto.AttendanceQuery{Batch: intPtr(2022), Semester: intPtr(4)}, wantStart: "2024-07-01", wantEnd: "2024-11-30"},
		{name: "batch defaults to active", q: dto.AttendanceQuery{Batch: intPtr(2022)}, active: true, wantStart: "2025-01-06", wantEnd: "2025-04-30"},
		{name: "batch without default", q: dto.AttendanceQuery{Batch: intPtr(2022)}},
		{name: "no filters", q: dto.AttendanceQuery{}},
		{name: "open semester", q: dto.AttendanceQuery{Batch: intPtr(2023), Semester: intPtr(3)}, wantErr: ErrIntervalRequired},
		{name: "unscheduled semester", q: dto.AttendanceQuery{Batch: intPtr(2022), Semester: intPtr(6)}, wantErr: ErrIntervalRequired},
		{name: "semester without batch", q: dto.AttendanceQuery{Semester: intPtr(4)}, wantErr: ErrSemesterNeedsBatch},
		{name: "half range", q: dto.AttendanceQuery{StartDate: "2025-03-01"}, wantErr: ErrIncompleteRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := svc.ResolveScope(ctx, adminCaller, &tt.q, tt.active)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveScope should succeed: %v", err)
			}
			if tt.wantStart == "" {
				if scope.Interval != nil {
					t.Errorf("expected no interval, got %+v", scope.Interval)
				}
				return
			}
			if scope.Interval == nil {
				t.Fatal("expected an interval")
			}
			if got := scope.Interval.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start: expected %s, got %s", tt.wantStart, got)
			}
			if got := scope.Interval.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end: expected %s, got %s", tt.wantEnd, got)
			}
		})
	}
}

func TestAttendance_ResolveScope_Population(t *testing.T) {
	svc, _ := setupAttendance()
	ctx := context.Background()

	scope, err := svc.ResolveScope(ctx, tutorCaller, &dto.AttendanceQuery{}, false)
	if err != nil {
		t.Fatalf("ResolveScope should succeed: %v", err)
	}
	if scope.Students.TutorID == nil || *scope.Students.TutorID != "tutor-1" {
		t.Error("a tutor only sees their own students")
	}

	scope, _ = svc.ResolveScope(ctx, adminCaller, &dto.AttendanceQuery{}, false)
	if scope.Students.TutorID != nil {
		t.Error("an admin sees every student")
	}

	_, err = svc.ResolveScope(ctx, Caller{UserID: "stu-1", Role: jwt.RoleStudent}, &dto.AttendanceQuery{}, false)
	if !errors.Is(err, ErrPopulationDenied) {
		t.Errorf("expected ErrPopulationDenied, got %v", err)
	}

	_, err = svc.ResolveScope(ctx, adminCaller, &dto.AttendanceQuery{StartDate: "2025-03-31", EndDate: "2025-03-01"}, false)
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Errorf("an inverted range should be a ValidationError, got %v", err)
	}
}

// ── Daily ──

func TestAttendance_Daily(t *testing.T) {
	svc, _ := setupAttendance()

	resp, err := svc.Daily(context.Background(), tutorCaller, &dto.AttendanceQuery{StartDate: "2025-03-10", EndDate: "2025-03-14"})
	if err != nil {
		t.Fatalf("Daily should succeed: %v", err)
	}
	if len(resp.Series) != 5 {
		t.Fatalf("expected 5 days, got %d", len(resp.Series))
	}

	want := []struct{ leave, od int }{{1, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	for i, w := range want {
		p := resp.Series[i]
		if p.LeaveCount != w.leave || p.ODCount != w.od {
			t.Errorf("%s: expected leave=%d od=%d, got leave=%d od=%d", p.Date, w.leave, w.od, p.LeaveCount, p.ODCount)
		}
	}
	if resp.Series[4].ExceptionDay != "Holi" {
		t.Errorf("expected the Holi marker on 2025-03-14, got %q", resp.Series[4].ExceptionDay)
	}
	if resp.Source != "computed" {
		t.Errorf("expected source computed, got %s", resp.Source)
	}
}

func TestAttendance_Daily_AdminSeesAllStudents(t *testing.T) {
	svc, _ := setupAttendance()

	resp, err := svc.Daily(context.Background(), adminCaller, &dto.AttendanceQuery{StartDate: "2025-03-11", EndDate: "2025-03-11"})
	if err != nil {
		t.Fatalf("Daily should succeed: %v", err)
	}
	if resp.Series[0].LeaveCount != 2 {
		t.Errorf("students a and c are on approved leave, got %d", resp.Series[0].LeaveCount)
	}
}

func TestAttendance_Daily_RequiresInterval(t *testing.T) {
	svc, _ := setupAttendance()

	_, err := svc.Daily(context.Background(), adminCaller, &dto.AttendanceQuery{})
	if !errors.Is(err, ErrIntervalRequired) {
		t.Errorf("expected ErrIntervalRequired, got %v", err)
	}
}

func TestAttendance_Daily_FetchFailure(t *testing.T) {
	svc, st := setupAttendance()
	st.ods.err = errors.New("connection reset")

	_, err := svc.Daily(context.Background(), adminCaller, &dto.AttendanceQuery{StartDate: "2025-03-10", EndDate: "2025-03-14"})
	if !pkgerrors.IsDataUnavailable(err) {
		t.Errorf("expected DataUnavailableError, got %v", err)
	}
}

// ── LocalSummary ──

func TestAttendance_LocalSummary(t *testing.T) {
	svc, _ := setupAttendance()
	ctx := context.Background()

	scope, _ := svc.ResolveScope(ctx, adminCaller, &dto.AttendanceQuery{Batch: intPtr(2022)}, false)
	rows, err := svc.LocalSummary(ctx, scope)
	if err != nil {
		t.Fatalf("LocalSummary should succeed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the 2 students of batch 2022, got %d", len(rows))
	}
	a, b := rows[0], rows[1]
	if a.LeaveCount != 2 || a.ODCount != 0 || a.Tutor != "N/A" {
		t.Errorf("student a: %+v", a)
	}
	if b.LeaveCount != 0 || b.ODCount != 1 || b.Tutor != "Dr. Rao" {
		t.Errorf("student b: %+v", b)
	}
}

func TestAttendance_ResolveScope_RangeTooLong(t *testing.T) {
	svc, _ := setupAttendance()

	q := dto.AttendanceQuery{StartDate: "1900-01-01", EndDate: "2199-12-31"}
	_, err := svc.ResolveScope(context.Background(), adminCaller, &q, true)
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Fatalf("expected a ValidationError for a 300-year range, got %v", err)
	}

	_, err = svc.Daily(context.Background(), adminCaller, &q)
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Fatalf("Daily should reject the range before fetching, got %v", err)
	}
}
