package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/model"
	"od-portal/backend/internal/repository"
	pkgerrors "od-portal/backend/pkg/errors"
)

// ── term calendar errors ──

var (
	ErrSemesterNotScheduled = errors.New("semester has no scheduled dates, select dates")
	ErrSemesterLocked       = errors.New("semester is locked until the previous semester has ended")
	ErrInvalidSemester      = errors.New("semester must be between 1 and 8")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEndWithoutStart      = errors.New("end_date requires start_date")
)

// TermCalendarService batch semester calendar. Every read rebuilds the
// calendar from the store.
type TermCalendarService interface {
	ListBatches(ctx context.Context) (*dto.BatchListResponse, error)
	Overview(ctx context.Context, batch int) (*dto.SemesterOverviewResponse, error)
	GetActiveSemester(ctx context.Context, batch int) (*dto.ActiveSemesterResponse, error)
	GetDateRange(ctx context.Context, batch, semester int) (*dto.SemesterRangeResponse, error)
	UpdateSchedule(ctx context.Context, batch, semester int, req *dto.UpdateSemesterScheduleRequest, callerID string) (*dto.SemesterStateResponse, error)
	// Calendar loads the batch calendar and the current date
	Calendar(ctx context.Context, batch int) (*academic.Calendar, time.Time, error)
}

type termCalendarService struct {
	repo   *repository.Repository
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewTermCalendarService creates a TermCalendarService
func NewTermCalendarService(repo *repository.Repository, clock Clock, loc *time.Location, logger *zap.Logger) TermCalendarService {
	return &termCalendarService{repo: repo, clock: clock, loc: loc, logger: logger}
}

// ────────────────────── Calendar ──────────────────────

func (s *termCalendarService) Calendar(ctx context.Context, batch int) (*academic.Calendar, time.Time, error) {
	rows, err := s.repo.Schedule.ListByBatch(ctx, batch)
	if err != nil {
		s.logger.Error("load semester schedules failed", zap.Int("batch", batch), zap.Error(err))
		return nil, time.Time{}, pkgerrors.Unavailable("semester schedules", err)
	}
	return academic.NewCalendar(batch, model.Windows(rows)), today(s.clock, s.loc), nil
}

// ────────────────────── ListBatches ──────────────────────

func (s *termCalendarService) ListBatches(ctx context.Context) (*dto.BatchListResponse, error) {
	batches, err := s.repo.Student.ListBatches(ctx)
	if err != nil {
		s.logger.Error("list batches failed", zap.Error(err))
		return nil, pkgerrors.Unavailable("batches", err)
	}
	if batches == nil {
		batches = []int{}
	}
	return &dto.BatchListResponse{Batches: batches}, nil
}

// ────────────────────── Overview ──────────────────────

func (s *termCalendarService) Overview(ctx context.Context, batch int) (*dto.SemesterOverviewResponse, error) {
	rows, err := s.repo.Schedule.ListByBatch(ctx, batch)
	if err != nil {
		s.logger.Error("load semester schedules failed", zap.Int("batch", batch), zap.Error(err))
		return nil, pkgerrors.Unavailable("semester schedules", err)
	}
	cal := academic.NewCalendar(batch, model.Windows(rows))
	now := today(s.clock, s.loc)

	versions := make(map[int]int, len(rows))
	for _, r := range rows {
		versions[r.Semester] = r.Version
	}

	resp := &dto.SemesterOverviewResponse{
		Batch:          batch,
		ActiveSemester: cal.ActiveSemester(now),
	}
	for _, st := range cal.States(now) {
		resp.Semesters = append(resp.Semesters, toStateResponse(st, versions[st.Semester]))
	}
	return resp, nil
}

// ────────────────────── GetActiveSemester ──────────────────────

func (s *termCalendarService) GetActiveSemester(ctx context.Context, batch int) (*dto.ActiveSemesterResponse, error) {
	cal, now, err := s.Calendar(ctx, batch)
	if err != nil {
		return nil, err
	}
	return &dto.ActiveSemesterResponse{Batch: batch, ActiveSemester: cal.ActiveSemester(now)}, nil
}

// ────────────────────── GetDateRange ──────────────────────

func (s *termCalendarService) GetDateRange(ctx context.Context, batch, semester int) (*dto.SemesterRangeResponse, error) {
	if !academic.ValidSemester(semester) {
		return nil, ErrInvalidSemester
	}
	cal, _, err := s.Calendar(ctx, batch)
	if err != nil {
		return nil, err
	}
	r, ok := cal.DateRange(semester)
	if !ok {
		return nil, ErrSemesterNotScheduled
	}
	return &dto.SemesterRangeResponse{
		Batch:     batch,
		Semester:  semester,
		StartDate: academic.FormatDate(r.Start),
		EndDate:   formatDatePtr(r.End),
	}, nil
}

// ────────────────────── UpdateSchedule ──────────────────────

func (s *termCalendarService) UpdateSchedule(ctx context.Context, batch, semester int, req *dto.UpdateSemesterScheduleRequest, callerID string) (*dto.SemesterStateResponse, error) {
	if !academic.ValidSemester(semester) {
		return nil, ErrInvalidSemester
	}
	start, err := parseDatePtr(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start == nil && end != nil {
		return nil, ErrEndWithoutStart
	}
	if start != nil && end != nil {
		if err := academic.NewInterval(*start, *end).Validate(); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.Schedule.ListByBatch(ctx, batch)
	if err != nil {
		s.logger.Error("load semester schedules failed", zap.Int("batch", batch), zap.Error(err))
		return nil, pkgerrors.Unavailable("semester schedules", err)
	}
	now := today(s.clock, s.loc)
	if academic.NewCalendar(batch, model.Windows(rows)).IsLocked(semester, now) {
		return nil, ErrSemesterLocked
	}

	existing, err := s.repo.Schedule.Get(ctx, batch, semester)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Version != nil {
			return nil, pkgerrors.ErrOptimisticLock
		}
		existing = &model.SemesterSchedule{
			Batch:          batch,
			Semester:       semester,
			StartDate:      start,
			EndDate:        end,
			VersionedModel: model.VersionedModel{BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID}},
		}
		if err := s.repo.Schedule.Create(ctx, existing); err != nil {
			return nil, s.writeError("create semester schedule failed", batch, semester, err)
		}
	case err != nil:
		s.logger.Error("load semester schedule failed", zap.Int("batch", batch), zap.Int("semester", semester), zap.Error(err))
		return nil, pkgerrors.Unavailable("semester schedules", err)
	default:
		if req.Version != nil {
			existing.Version = *req.Version
		}
		existing.StartDate = start
		existing.EndDate = end
		existing.UpdatedBy = &callerID
		if err := s.repo.Schedule.Update(ctx, existing); err != nil {
			return nil, s.writeError("update semester schedule failed", batch, semester, err)
		}
	}

	s.logger.Info("semester schedule saved",
		zap.Int("batch", batch), zap.Int("semester", semester),
		zap.String("by", callerID), zap.Int("version", existing.Version))

	rows = replaceRow(rows, *existing)
	st := academic.NewCalendar(batch, model.Windows(rows)).States(now)[semester-1]
	resp := toStateResponse(st, existing.Version)
	return &resp, nil
}

func (s *termCalendarService) writeError(msg string, batch, semester int, err error) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return err
	}
	s.logger.Error(msg, zap.Int("batch", batch), zap.Int("semester", semester), zap.Error(err))
	return err
}

// ── helpers ──

func replaceRow(rows []model.SemesterSchedule, row model.SemesterSchedule) []model.SemesterSchedule {
	out := make([]model.SemesterSchedule, 0, len(rows)+1)
	for _, r := range rows {
		if r.Semester != row.Semester {
			out = append(out, r)
		}
	}
	return append(out, row)
}

func toStateResponse(st academic.SemesterState, version int) dto.SemesterStateResponse {
	return dto.SemesterStateResponse{
		Semester:  st.Semester,
		StartDate: formatDatePtr(st.Start),
		EndDate:   formatDatePtr(st.End),
		Scheduled: st.Scheduled,
		Locked:    st.Locked,
		Active:    st.Active,
		Version:   version,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := academic.FormatDate(*t)
	return &s
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := academic.ParseDate(*s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := academic.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
