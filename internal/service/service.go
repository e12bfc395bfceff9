package service

import (
	"time"

	"go.uber.org/zap"

	"od-portal/backend/config"
	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/repository"
)

// Clock source of "now"; injected so the term calendar can be tested at any date
type Clock func() time.Time

// Caller authenticated user of a request
type Caller struct {
	UserID string
	Role   string
}

// Service aggregate entry for all services
type Service struct {
	TermCalendar TermCalendarService
	ExceptionDay ExceptionDayService
	Request      RequestService
	Attendance   AttendanceService
	Report       ReportService
}

// NewService builds all services on the wall clock in the configured timezone
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	loc := cfg.Report.Location()
	clock := Clock(time.Now)

	calendar := NewTermCalendarService(repo, clock, loc, logger)
	attendance := NewAttendanceService(repo, calendar, clock, loc, cfg.Report.FetchTimeout, logger)
	return &Service{
		TermCalendar: calendar,
		ExceptionDay: NewExceptionDayService(repo, cfg.Report.InstitutionName, loc, clock, logger),
		Request:      NewRequestService(repo, logger),
		Attendance:   attendance,
		Report:       NewReportService(repo, attendance, clock, loc, cfg.Report.InstitutionName, cfg.Report.FetchTimeout, logger),
	}
}

// today calendar date of now in loc
func today(clock Clock, loc *time.Location) time.Time {
	return academic.Day(clock().In(loc))
}
