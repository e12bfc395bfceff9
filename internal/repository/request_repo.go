package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"od-portal/backend/internal/model"
)

// SpanFilter selects approved requests. From/To keep spans overlapping the
// bounds; nil bounds are open.
type SpanFilter struct {
	From     *time.Time
	To       *time.Time
	Students StudentFilter
}

// LeaveRequestRepository leave request access
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	ListByStudent(ctx context.Context, studentID string) ([]model.LeaveRequest, error)
	ListApprovedSpans(ctx context.Context, filter SpanFilter) ([]model.RequestSpan, error)
}

// ODRequestRepository on-duty request access
type ODRequestRepository interface {
	Create(ctx context.Context, req *model.ODRequest) error
	ListByStudent(ctx context.Context, studentID string) ([]model.ODRequest, error)
	ListApprovedSpans(ctx context.Context, filter SpanFilter) ([]model.RequestSpan, error)
}

// ── LeaveRequest Repository ──

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo creates a LeaveRequestRepository
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) ListByStudent(ctx context.Context, studentID string) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRequestRepo) ListApprovedSpans(ctx context.Context, filter SpanFilter) ([]model.RequestSpan, error) {
	var spans []model.RequestSpan
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Scopes(scopeApprovedSpans("leave_requests", filter)).
		Select("leave_requests.student_id, leave_requests.start_date, leave_requests.end_date").
		Scan(&spans).Error
	return spans, err
}

// ── ODRequest Repository ──

type odRequestRepo struct {
	db *gorm.DB
}

// NewODRequestRepo creates an ODRequestRepository
func NewODRequestRepo(db *gorm.DB) ODRequestRepository {
	return &odRequestRepo{db: db}
}

func (r *odRequestRepo) Create(ctx context.Context, req *model.ODRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *odRequestRepo) ListByStudent(ctx context.Context, studentID string) ([]model.ODRequest, error) {
	var reqs []model.ODRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *odRequestRepo) ListApprovedSpans(ctx context.Context, filter SpanFilter) ([]model.RequestSpan, error) {
	var spans []model.RequestSpan
	err := r.db.WithContext(ctx).
		Model(&model.ODRequest{}).
		Scopes(scopeApprovedSpans("od_requests", filter)).
		Select("od_requests.student_id, od_requests.start_date, od_requests.end_date").
		Scan(&spans).Error
	return spans, err
}

// scopeApprovedSpans filters approved rows of table; both request tables
// share these columns
func scopeApprovedSpans(table string, f SpanFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN students ON students.student_id = "+table+".student_id AND students.deleted_at IS NULL").
			Where(table+".status = ?", model.StatusApproved).
			Scopes(scopeStudents(f.Students))
		if f.From != nil {
			db = db.Where(table+".end_date >= ?", f.From.Format("2006-01-02"))
		}
		if f.To != nil {
			db = db.Where(table+".start_date <= ?", f.To.Format("2006-01-02"))
		}
		return db
	}
}
