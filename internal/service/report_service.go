package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/report"
	"od-portal/backend/internal/repository"
)

// ReportService attendance exports. Data comes from the SQL aggregation first,
// then from local recomputation, and only if both fail from a zero-filled
// placeholder; the provenance is recorded in the export metadata.
type ReportService interface {
	Generate(ctx context.Context, caller Caller, q *dto.ReportQuery) (*report.Artifact, error)
}

type reportService struct {
	repo         *repository.Repository
	attendance   AttendanceService
	clock        Clock
	loc          *time.Location
	institution  string
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewReportService creates a ReportService
func NewReportService(repo *repository.Repository, attendance AttendanceService, clock Clock, loc *time.Location, institution string, fetchTimeout time.Duration, logger *zap.Logger) ReportService {
	return &reportService{
		repo:         repo,
		attendance:   attendance,
		clock:        clock,
		loc:          loc,
		institution:  institution,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// ────────────────────── Generate ──────────────────────

func (s *reportService) Generate(ctx context.Context, caller Caller, q *dto.ReportQuery) (*report.Artifact, error) {
	format, err := report.ParseFormat(q.Format)
	if err != nil {
		return nil, err
	}
	scope, err := s.attendance.ResolveScope(ctx, caller, &q.AttendanceQuery, false)
	if err != nil {
		return nil, err
	}

	meta := report.Metadata{
		Institution: s.institution,
		GeneratedAt: s.clock().In(s.loc),
		Filters:     scope.Filters,
	}

	var artifact *report.Artifact
	if scope.Interval != nil {
		series, source, err := s.dailyData(ctx, scope)
		if err != nil {
			return nil, err
		}
		meta.Source = source
		artifact, err = report.MaterializeDaily(*scope.Interval, series, meta, format)
		if err != nil {
			s.logger.Error("daily report rendering failed", zap.String("format", string(format)), zap.Error(err))
			return nil, err
		}
	} else {
		rows, source, err := s.summaryData(ctx, scope)
		if err != nil {
			return nil, err
		}
		meta.Source = source
		artifact, err = report.MaterializeSummary(rows, meta, format)
		if err != nil {
			s.logger.Error("summary report rendering failed", zap.String("format", string(format)), zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("report generated",
		zap.String("file", artifact.Filename),
		zap.String("source", string(artifact.Meta.Source)),
		zap.Int("rows", artifact.Meta.RowCount),
		zap.String("by", caller.UserID))
	return artifact, nil
}

// dailyData primary SQL series, else local recomputation, else nil for the
// zero-filled placeholder. A cancelled request aborts instead of degrading.
func (s *reportService) dailyData(ctx context.Context, scope *Scope) ([]academic.DailyCount, report.Provenance, error) {
	pctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	rows, err := s.repo.Attendance.DailyCounts(pctx, *scope.Interval, scope.Students)
	cancel()
	if err == nil {
		series := make([]academic.DailyCount, 0, len(rows))
		for _, r := range rows {
			series = append(series, academic.DailyCount{Date: academic.Day(r.Day), LeaveCount: r.LeaveCount, ODCount: r.ODCount})
		}
		return series, report.ProvenanceComputed, nil
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	s.logger.Warn("SQL daily aggregation failed, recomputing locally", zap.Error(err))

	series, err := s.attendance.LocalDaily(ctx, scope)
	if err == nil {
		return series, report.ProvenanceFallback, nil
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	s.logger.Warn("local daily recomputation failed, emitting placeholder", zap.Error(err))
	return nil, report.ProvenancePlaceholder, nil
}

// summaryData same policy as dailyData for the per-student summary
func (s *reportService) summaryData(ctx context.Context, scope *Scope) ([]report.SummaryRow, report.Provenance, error) {
	pctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	rows, err := s.repo.Attendance.StudentSummary(pctx, scope.Students)
	cancel()
	if err == nil {
		out := make([]report.SummaryRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, report.SummaryRow{
				StudentID:      r.StudentID,
				Name:           r.Name,
				RegisterNumber: r.RegisterNumber,
				Batch:          r.Batch,
				Semester:       r.Semester,
				LeaveCount:     r.LeaveCount,
				ODCount:        r.ODCount,
				Tutor:          orNA(r.TutorName),
				Email:          r.Email,
				Phone:          r.Phone,
			})
		}
		return out, report.ProvenanceComputed, nil
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	s.logger.Warn("SQL summary aggregation failed, recomputing locally", zap.Error(err))

	out, err := s.attendance.LocalSummary(ctx, scope)
	if err == nil {
		return out, report.ProvenanceFallback, nil
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	s.logger.Warn("local summary recomputation failed, emitting placeholder", zap.Error(err))
	return nil, report.ProvenancePlaceholder, nil
}
