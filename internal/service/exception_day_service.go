package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/model"
	"od-portal/backend/internal/repository"
	pkgerrors "od-portal/backend/pkg/errors"
)

// ── exception day errors ──

var (
	ErrExceptionDayNotFound = errors.New("exception day not found")
	ErrInvalidICS           = errors.New("invalid iCalendar file")
	ErrICSTooLarge          = errors.New("iCalendar file exceeds 2 MB")
)

// ExceptionDayService exception day registry and range preview
type ExceptionDayService interface {
	// Create is idempotent per date: an existing row for the date is returned
	// with created=false
	Create(ctx context.Context, req *dto.CreateExceptionDayRequest, callerID string) (resp *dto.ExceptionDayResponse, created bool, err error)
	List(ctx context.Context, req *dto.ExceptionDayListRequest) ([]dto.ExceptionDayResponse, error)
	Delete(ctx context.Context, id string) error
	CheckRange(ctx context.Context, req *dto.RangeCheckRequest) (*dto.RangeCheckResponse, error)
	ExportICS(ctx context.Context) (string, error)
	ImportICS(ctx context.Context, reader io.Reader, callerID string) (*dto.ExceptionDayImportResponse, error)
}

type exceptionDayService struct {
	repo         *repository.Repository
	calendarName string
	loc          *time.Location
	now          Clock
	logger       *zap.Logger
}

// NewExceptionDayService creates an ExceptionDayService
func NewExceptionDayService(repo *repository.Repository, calendarName string, loc *time.Location, clock Clock, logger *zap.Logger) ExceptionDayService {
	return &exceptionDayService{repo: repo, calendarName: calendarName, loc: loc, now: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *exceptionDayService) Create(ctx context.Context, req *dto.CreateExceptionDayRequest, callerID string) (*dto.ExceptionDayResponse, bool, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, false, err
	}

	day, created, err := s.createOnce(ctx, model.ExceptionDay{
		Date:        date,
		Reason:      req.Reason,
		Description: req.Description,
	}, callerID)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("exception day created", zap.String("date", req.Date), zap.String("by", callerID))
	}
	resp := toExceptionDayResponse(day)
	return &resp, created, nil
}

// createOnce inserts day unless its date is already registered. Re-running an
// import therefore only adds the dates still missing. A concurrent insert of
// the same date loses on the unique index and returns the winner's row.
func (s *exceptionDayService) createOnce(ctx context.Context, day model.ExceptionDay, callerID string) (*model.ExceptionDay, bool, error) {
	existing, err := s.repo.ExceptionDay.GetByDate(ctx, day.Date)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup exception day failed", zap.Error(err))
		return nil, false, pkgerrors.Unavailable("exception days", err)
	}

	day.CreatedBy = &callerID
	day.UpdatedBy = &callerID
	inserted, err := s.repo.ExceptionDay.Create(ctx, &day)
	if err != nil {
		s.logger.Error("create exception day failed", zap.Error(err))
		return nil, false, err
	}
	if !inserted {
		existing, err := s.repo.ExceptionDay.GetByDate(ctx, day.Date)
		if err != nil {
			return nil, false, pkgerrors.Unavailable("exception days", err)
		}
		return existing, false, nil
	}
	return &day, true, nil
}

// ────────────────────── List ──────────────────────

func (s *exceptionDayService) List(ctx context.Context, req *dto.ExceptionDayListRequest) ([]dto.ExceptionDayResponse, error) {
	var from, to *time.Time
	if req.From != "" {
		t, err := parseDate(req.From)
		if err != nil {
			return nil, err
		}
		from = &t
	}
	if req.To != "" {
		t, err := parseDate(req.To)
		if err != nil {
			return nil, err
		}
		to = &t
	}
	if from != nil && to != nil {
		if err := academic.NewInterval(*from, *to).Validate(); err != nil {
			return nil, err
		}
	}

	days, err := s.repo.ExceptionDay.List(ctx, from, to)
	if err != nil {
		s.logger.Error("list exception days failed", zap.Error(err))
		return nil, pkgerrors.Unavailable("exception days", err)
	}

	result := make([]dto.ExceptionDayResponse, 0, len(days))
	for i := range days {
		result = append(result, toExceptionDayResponse(&days[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *exceptionDayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.ExceptionDay.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExceptionDayNotFound
		}
		s.logger.Error("delete exception day failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── CheckRange ──────────────────────

func (s *exceptionDayService) CheckRange(ctx context.Context, req *dto.RangeCheckRequest) (*dto.RangeCheckResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := academic.NewInterval(start, end).Validate(); err != nil {
		return nil, err
	}

	days, err := s.repo.ExceptionDay.List(ctx, &start, &end)
	if err != nil {
		s.logger.Error("list exception days failed", zap.Error(err))
		return nil, pkgerrors.Unavailable("exception days", err)
	}

	resp := &dto.RangeCheckResponse{Allowed: true, Collisions: []dto.CollisionResponse{}}
	if verr := academic.ValidateRequestRange(start, end, model.ToAcademic(days)); verr != nil {
		ve, ok := pkgerrors.IsValidation(verr)
		if !ok {
			return nil, verr
		}
		resp.Allowed = false
		resp.Collisions = toCollisionResponses(ve.Collisions)
	}
	return resp, nil
}

// ────────────────────── ExportICS ──────────────────────

func (s *exceptionDayService) ExportICS(ctx context.Context) (string, error) {
	days, err := s.repo.ExceptionDay.List(ctx, nil, nil)
	if err != nil {
		s.logger.Error("list exception days failed", zap.Error(err))
		return "", pkgerrors.Unavailable("exception days", err)
	}
	return BuildExceptionDayICS(days, s.calendarName+" exception days", s.now()), nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *exceptionDayService) ImportICS(ctx context.Context, reader io.Reader, callerID string) (*dto.ExceptionDayImportResponse, error) {
	parsed, err := ParseExceptionDayICS(reader, s.loc)
	if err != nil {
		s.logger.Warn("iCalendar import rejected", zap.Error(err))
		if errors.Is(err, ErrICSTooLarge) {
			return nil, ErrICSTooLarge
		}
		return nil, ErrInvalidICS
	}

	resp := &dto.ExceptionDayImportResponse{Created: []dto.ExceptionDayResponse{}}
	for _, day := range parsed {
		row, created, err := s.createOnce(ctx, day, callerID)
		if err != nil {
			return nil, err
		}
		if !created {
			resp.Skipped++
			continue
		}
		resp.Created = append(resp.Created, toExceptionDayResponse(row))
	}

	s.logger.Info("exception days imported",
		zap.Int("created", len(resp.Created)), zap.Int("skipped", resp.Skipped), zap.String("by", callerID))
	return resp, nil
}

// ── helpers ──

func toExceptionDayResponse(d *model.ExceptionDay) dto.ExceptionDayResponse {
	return dto.ExceptionDayResponse{
		ID:          d.ExceptionDayID,
		Date:        academic.FormatDate(d.Date),
		Reason:      d.Reason,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

func toCollisionResponses(cs []pkgerrors.Collision) []dto.CollisionResponse {
	out := make([]dto.CollisionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, dto.CollisionResponse{Date: academic.FormatDate(c.Date), Reason: c.Reason})
	}
	return out
}
