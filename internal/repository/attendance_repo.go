package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"od-portal/backend/internal/academic"
)

// DailyCountRow one day of the SQL-side daily aggregation
type DailyCountRow struct {
	Day        time.Time
	LeaveCount int
	ODCount    int
}

// StudentSummaryRow one student of the SQL-side summary aggregation
type StudentSummaryRow struct {
	StudentID      string
	Name           string
	RegisterNumber string
	Batch          int
	Semester       int
	TutorName      string
	Email          string
	Phone          string
	LeaveCount     int
	ODCount        int
}

// AttendanceRepository aggregation pushed down to PostgreSQL. Results are
// never stored; each call recomputes.
type AttendanceRepository interface {
	DailyCounts(ctx context.Context, iv academic.Interval, filter StudentFilter) ([]DailyCountRow, error)
	StudentSummary(ctx context.Context, filter StudentFilter) ([]StudentSummaryRow, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// DailyCounts one row per day of iv with distinct approved students on leave and on OD
func (r *attendanceRepo) DailyCounts(ctx context.Context, iv academic.Interval, filter StudentFilter) ([]DailyCountRow, error) {
	population, args := populationSQL(filter)
	args["start"] = academic.FormatDate(iv.Start)
	args["end"] = academic.FormatDate(iv.End)
	args["approved"] = "Approved"

	query := `
		WITH population AS (` + population + `),
		days AS (
			SELECT d::date AS day
			FROM generate_series(CAST(@start AS date), CAST(@end AS date), interval '1 day') AS d
		)
		SELECT days.day AS day,
			(SELECT COUNT(DISTINCT l.student_id)
			   FROM leave_requests l
			   JOIN population p ON p.student_id = l.student_id
			  WHERE l.status = @approved AND l.deleted_at IS NULL
			    AND days.day BETWEEN l.start_date AND l.end_date) AS leave_count,
			(SELECT COUNT(DISTINCT o.student_id)
			   FROM od_requests o
			   JOIN population p ON p.student_id = o.student_id
			  WHERE o.status = @approved AND o.deleted_at IS NULL
			    AND days.day BETWEEN o.start_date AND o.end_date) AS od_count
		FROM days
		ORDER BY days.day`

	var rows []DailyCountRow
	err := r.db.WithContext(ctx).Raw(query, args).Scan(&rows).Error
	return rows, err
}

// StudentSummary approved leave and OD request totals per student of the population
func (r *attendanceRepo) StudentSummary(ctx context.Context, filter StudentFilter) ([]StudentSummaryRow, error) {
	args := map[string]interface{}{"approved": "Approved"}
	where := "s.deleted_at IS NULL"
	if filter.Batch != nil {
		where += " AND s.batch = @batch"
		args["batch"] = *filter.Batch
	}
	if filter.TutorID != nil {
		where += " AND s.tutor_id = @tutor_id"
		args["tutor_id"] = *filter.TutorID
	}

	query := `
		SELECT s.student_id, s.name, s.register_number, s.batch, s.semester,
			COALESCE(t.name, '') AS tutor_name, s.email, s.phone,
			(SELECT COUNT(*) FROM leave_requests l
			  WHERE l.student_id = s.student_id AND l.status = @approved AND l.deleted_at IS NULL) AS leave_count,
			(SELECT COUNT(*) FROM od_requests o
			  WHERE o.student_id = s.student_id AND o.status = @approved AND o.deleted_at IS NULL) AS od_count
		FROM students s
		LEFT JOIN tutors t ON t.tutor_id = s.tutor_id
		WHERE ` + where + `
		ORDER BY s.batch, s.register_number`

	var rows []StudentSummaryRow
	err := r.db.WithContext(ctx).Raw(query, args).Scan(&rows).Error
	return rows, err
}
