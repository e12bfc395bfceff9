package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/model"
	"od-portal/backend/internal/report"
	"od-portal/backend/internal/repository"
	pkgerrors "od-portal/backend/pkg/errors"
	"od-portal/backend/pkg/jwt"
)

// ── attendance errors ──

var (
	ErrIntervalRequired   = errors.New("no date range for these filters, select dates")
	ErrIncompleteRange    = errors.New("start_date and end_date must be given together")
	ErrSemesterNeedsBatch = errors.New("the semester filter requires a batch")
	ErrPopulationDenied   = errors.New("attendance data is limited to admins and tutors")
)

// Scope resolved query: the interval (nil when no filter narrows it) and the
// student population
type Scope struct {
	Interval *academic.Interval
	Students repository.StudentFilter
	Filters  []report.Filter
}

// AttendanceService one service for both admin and tutor views; only the
// population filter differs between them
type AttendanceService interface {
	// ResolveScope turns query filters into a scope. With defaultToActive a
	// batch-only query covers the batch's active semester.
	ResolveScope(ctx context.Context, caller Caller, q *dto.AttendanceQuery, defaultToActive bool) (*Scope, error)
	Daily(ctx context.Context, caller Caller, q *dto.AttendanceQuery) (*dto.DailySeriesResponse, error)
	// LocalDaily fetches rows and computes the series in memory
	LocalDaily(ctx context.Context, scope *Scope) ([]academic.DailyCount, error)
	// LocalSummary fetches rows and tallies approved requests per student in memory
	LocalSummary(ctx context.Context, scope *Scope) ([]report.SummaryRow, error)
}

type attendanceService struct {
	repo         *repository.Repository
	calendar     TermCalendarService
	clock        Clock
	loc          *time.Location
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewAttendanceService creates an AttendanceService
func NewAttendanceService(repo *repository.Repository, calendar TermCalendarService, clock Clock, loc *time.Location, fetchTimeout time.Duration, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:         repo,
		calendar:     calendar,
		clock:        clock,
		loc:          loc,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// ────────────────────── ResolveScope ──────────────────────

func (s *attendanceService) ResolveScope(ctx context.Context, caller Caller, q *dto.AttendanceQuery, defaultToActive bool) (*Scope, error) {
	scope := &Scope{}

	switch caller.Role {
	case jwt.RoleAdmin:
	case jwt.RoleTutor:
		tutorID := caller.UserID
		scope.Students.TutorID = &tutorID
		scope.Filters = append(scope.Filters, report.Filter{Name: "population", Value: "students of tutor " + caller.UserID})
	default:
		return nil, ErrPopulationDenied
	}
	if q.Batch != nil {
		batch := *q.Batch
		scope.Students.Batch = &batch
		scope.Filters = append(scope.Filters, report.Filter{Name: "batch", Value: strconv.Itoa(batch)})
	}

	switch {
	case q.StartDate != "" || q.EndDate != "":
		if q.StartDate == "" || q.EndDate == "" {
			return nil, ErrIncompleteRange
		}
		start, err := parseDate(q.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDate(q.EndDate)
		if err != nil {
			return nil, err
		}
		iv := academic.NewInterval(start, end)
		scope.Interval = &iv
		if q.Semester != nil {
			scope.Filters = append(scope.Filters, report.Filter{Name: "semester", Value: strconv.Itoa(*q.Semester)})
		}

	case q.Semester != nil:
		if q.Batch == nil {
			return nil, ErrSemesterNeedsBatch
		}
		iv, err := s.semesterInterval(ctx, *q.Batch, func(*academic.Calendar, time.Time) int { return *q.Semester })
		if err != nil {
			return nil, err
		}
		scope.Interval = iv
		scope.Filters = append(scope.Filters, report.Filter{Name: "semester", Value: strconv.Itoa(*q.Semester)})

	case q.Batch != nil && defaultToActive:
		var active int
		iv, err := s.semesterInterval(ctx, *q.Batch, func(cal *academic.Calendar, now time.Time) int {
			active = cal.ActiveSemester(now)
			return active
		})
		if err != nil {
			return nil, err
		}
		scope.Interval = iv
		scope.Filters = append(scope.Filters, report.Filter{Name: "semester", Value: strconv.Itoa(active) + " (active)"})
	}

	if scope.Interval != nil {
		if err := scope.Interval.ValidateAggregation(); err != nil {
			return nil, err
		}
		scope.Filters = append(scope.Filters, report.Filter{
			Name:  "period",
			Value: academic.FormatDate(scope.Interval.Start) + " to " + academic.FormatDate(scope.Interval.End),
		})
	}
	return scope, nil
}

// semesterInterval closed interval of the semester picked from the batch
// calendar; an unscheduled or still open semester has none
func (s *attendanceService) semesterInterval(ctx context.Context, batch int, pick func(*academic.Calendar, time.Time) int) (*academic.Interval, error) {
	cal, now, err := s.calendar.Calendar(ctx, batch)
	if err != nil {
		return nil, err
	}
	r, ok := cal.DateRange(pick(cal, now))
	if !ok {
		return nil, ErrIntervalRequired
	}
	iv, ok := r.Interval()
	if !ok {
		return nil, ErrIntervalRequired
	}
	return &iv, nil
}

// ────────────────────── Daily ──────────────────────

func (s *attendanceService) Daily(ctx context.Context, caller Caller, q *dto.AttendanceQuery) (*dto.DailySeriesResponse, error) {
	scope, err := s.ResolveScope(ctx, caller, q, true)
	if err != nil {
		return nil, err
	}
	if scope.Interval == nil {
		return nil, ErrIntervalRequired
	}

	series, exceptionDays, err := s.load(ctx, scope, true)
	if err != nil {
		s.logger.Error("daily attendance fetch failed", zap.Error(err))
		return nil, err
	}

	reasons := make(map[time.Time]string, len(exceptionDays))
	for _, d := range exceptionDays {
		day := academic.Day(d.Date)
		if _, ok := reasons[day]; !ok {
			reasons[day] = d.Reason
		}
	}

	resp := &dto.DailySeriesResponse{
		StartDate: academic.FormatDate(scope.Interval.Start),
		EndDate:   academic.FormatDate(scope.Interval.End),
		Source:    string(report.ProvenanceComputed),
		Series:    make([]dto.DailyPoint, 0, len(series)),
	}
	for _, dc := range series {
		resp.Series = append(resp.Series, dto.DailyPoint{
			Date:         academic.FormatDate(dc.Date),
			LeaveCount:   dc.LeaveCount,
			ODCount:      dc.ODCount,
			ExceptionDay: reasons[dc.Date],
		})
	}
	return resp, nil
}

// ────────────────────── LocalDaily ──────────────────────

func (s *attendanceService) LocalDaily(ctx context.Context, scope *Scope) ([]academic.DailyCount, error) {
	if scope.Interval == nil {
		return nil, ErrIntervalRequired
	}
	series, _, err := s.load(ctx, scope, false)
	return series, err
}

// load fetches the population, the approved spans overlapping the interval
// and optionally the exception days concurrently, then computes the series
func (s *attendanceService) load(ctx context.Context, scope *Scope, withExceptionDays bool) ([]academic.DailyCount, []model.ExceptionDay, error) {
	iv := *scope.Interval
	spanFilter := repository.SpanFilter{From: &iv.Start, To: &iv.End, Students: scope.Students}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var (
		ids           []string
		leaves, ods   []model.RequestSpan
		exceptionDays []model.ExceptionDay
	)
	g.Go(func() error {
		var err error
		ids, err = s.repo.Student.ListIDs(gctx, scope.Students)
		return pkgerrors.Unavailable("students", err)
	})
	g.Go(func() error {
		var err error
		leaves, err = s.repo.Leave.ListApprovedSpans(gctx, spanFilter)
		return pkgerrors.Unavailable("leave requests", err)
	})
	g.Go(func() error {
		var err error
		ods, err = s.repo.OD.ListApprovedSpans(gctx, spanFilter)
		return pkgerrors.Unavailable("OD requests", err)
	})
	if withExceptionDays {
		g.Go(func() error {
			var err error
			exceptionDays, err = s.repo.ExceptionDay.List(gctx, &iv.Start, &iv.End)
			return pkgerrors.Unavailable("exception days", err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return academic.ComputeDailySeries(iv, ids, model.Spans(leaves), model.Spans(ods)), exceptionDays, nil
}

// ────────────────────── LocalSummary ──────────────────────

func (s *attendanceService) LocalSummary(ctx context.Context, scope *Scope) ([]report.SummaryRow, error) {
	spanFilter := repository.SpanFilter{Students: scope.Students}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var (
		students    []model.Student
		leaves, ods []model.RequestSpan
	)
	g.Go(func() error {
		var err error
		students, err = s.repo.Student.List(gctx, scope.Students)
		return pkgerrors.Unavailable("students", err)
	})
	g.Go(func() error {
		var err error
		leaves, err = s.repo.Leave.ListApprovedSpans(gctx, spanFilter)
		return pkgerrors.Unavailable("leave requests", err)
	})
	g.Go(func() error {
		var err error
		ods, err = s.repo.OD.ListApprovedSpans(gctx, spanFilter)
		return pkgerrors.Unavailable("OD requests", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	leaveCounts := academic.CountByStudent(model.Spans(leaves))
	odCounts := academic.CountByStudent(model.Spans(ods))

	rows := make([]report.SummaryRow, 0, len(students))
	for _, st := range students {
		tutor := ""
		if st.Tutor != nil {
			tutor = st.Tutor.Name
		}
		rows = append(rows, report.SummaryRow{
			StudentID:      st.StudentID,
			Name:           st.Name,
			RegisterNumber: st.RegisterNumber,
			Batch:          st.Batch,
			Semester:       st.Semester,
			LeaveCount:     leaveCounts[st.StudentID],
			ODCount:        odCounts[st.StudentID],
			Tutor:          orNA(tutor),
			Email:          st.Email,
			Phone:          st.Phone,
		})
	}
	return rows, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
