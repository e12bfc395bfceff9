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

// ── request intake errors ──

var (
	ErrStudentNotFound  = errors.New("no student record for this account")
	ErrHalfDayMultiDate = errors.New("a half-day request must start and end on the same date")
)

// RequestService leave and OD intake. New requests are checked against the
// exception days before anything is stored; approved requests are never
// re-validated.
type RequestService interface {
	CreateLeave(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	CreateOD(ctx context.Context, studentID string, req *dto.CreateODRequest) (*dto.ODRequestResponse, error)
	ListMine(ctx context.Context, studentID string) (*dto.MyRequestsResponse, error)
}

type requestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequestService creates a RequestService
func NewRequestService(repo *repository.Repository, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, logger: logger}
}

// ────────────────────── CreateLeave ──────────────────────

func (s *requestService) CreateLeave(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	duration := durationOrDefault(req.DurationType)
	start, end, err := s.admit(ctx, studentID, req.StartDate, req.EndDate, duration)
	if err != nil {
		return nil, err
	}

	leave := &model.LeaveRequest{
		StudentID:    studentID,
		StartDate:    start,
		EndDate:      end,
		DurationType: duration,
		Reason:       req.Reason,
		Status:       model.StatusPending,
	}
	leave.CreatedBy = &studentID
	leave.UpdatedBy = &studentID
	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("create leave request failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave request submitted", zap.String("id", leave.LeaveRequestID), zap.String("student_id", studentID))
	resp := toLeaveResponse(leave)
	return &resp, nil
}

// ────────────────────── CreateOD ──────────────────────

func (s *requestService) CreateOD(ctx context.Context, studentID string, req *dto.CreateODRequest) (*dto.ODRequestResponse, error) {
	duration := durationOrDefault(req.DurationType)
	start, end, err := s.admit(ctx, studentID, req.StartDate, req.EndDate, duration)
	if err != nil {
		return nil, err
	}

	od := &model.ODRequest{
		StudentID:    studentID,
		StartDate:    start,
		EndDate:      end,
		DurationType: duration,
		EventName:    req.EventName,
		Reason:       req.Reason,
		Status:       model.StatusPending,
	}
	od.CreatedBy = &studentID
	od.UpdatedBy = &studentID
	if err := s.repo.OD.Create(ctx, od); err != nil {
		s.logger.Error("create OD request failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("OD request submitted", zap.String("id", od.ODRequestID), zap.String("student_id", studentID))
	resp := toODResponse(od)
	return &resp, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *requestService) ListMine(ctx context.Context, studentID string) (*dto.MyRequestsResponse, error) {
	leaves, err := s.repo.Leave.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, pkgerrors.Unavailable("leave requests", err)
	}
	ods, err := s.repo.OD.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list OD requests failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, pkgerrors.Unavailable("OD requests", err)
	}

	resp := &dto.MyRequestsResponse{
		Leaves: make([]dto.LeaveRequestResponse, 0, len(leaves)),
		ODs:    make([]dto.ODRequestResponse, 0, len(ods)),
	}
	for i := range leaves {
		resp.Leaves = append(resp.Leaves, toLeaveResponse(&leaves[i]))
	}
	for i := range ods {
		resp.ODs = append(resp.ODs, toODResponse(&ods[i]))
	}
	return resp, nil
}

// admit parses the range and runs the intake checks shared by both request kinds
func (s *requestService) admit(ctx context.Context, studentID, startRaw, endRaw, duration string) (time.Time, time.Time, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := academic.NewInterval(start, end).Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if duration == model.DurationHalf && !start.Equal(end) {
		return time.Time{}, time.Time{}, ErrHalfDayMultiDate
	}

	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, time.Time{}, ErrStudentNotFound
		}
		s.logger.Error("load student failed", zap.String("student_id", studentID), zap.Error(err))
		return time.Time{}, time.Time{}, pkgerrors.Unavailable("students", err)
	}

	days, err := s.repo.ExceptionDay.List(ctx, &start, &end)
	if err != nil {
		s.logger.Error("list exception days failed", zap.Error(err))
		return time.Time{}, time.Time{}, pkgerrors.Unavailable("exception days", err)
	}
	if err := academic.ValidateRequestRange(start, end, model.ToAcademic(days)); err != nil {
		s.logger.Info("request rejected on exception days",
			zap.String("student_id", studentID), zap.String("start", startRaw), zap.String("end", endRaw))
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func durationOrDefault(d string) string {
	if d == "" {
		return model.DurationFull
	}
	return d
}

func toLeaveResponse(l *model.LeaveRequest) dto.LeaveRequestResponse {
	return dto.LeaveRequestResponse{
		ID:           l.LeaveRequestID,
		StartDate:    academic.FormatDate(l.StartDate),
		EndDate:      academic.FormatDate(l.EndDate),
		DurationType: l.DurationType,
		Reason:       l.Reason,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}

func toODResponse(o *model.ODRequest) dto.ODRequestResponse {
	return dto.ODRequestResponse{
		ID:           o.ODRequestID,
		StartDate:    academic.FormatDate(o.StartDate),
		EndDate:      academic.FormatDate(o.EndDate),
		DurationType: o.DurationType,
		EventName:    o.EventName,
		Reason:       o.Reason,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}
