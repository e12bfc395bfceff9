package repository

import "gorm.io/gorm"

// Repository aggregate entry for all repositories
type Repository struct {
	Student      StudentRepository
	Schedule     SemesterScheduleRepository
	ExceptionDay ExceptionDayRepository
	Leave        LeaveRequestRepository
	OD           ODRequestRepository
	Attendance   AttendanceRepository
}

// NewRepository builds the aggregate on one connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:      NewStudentRepo(db),
		Schedule:     NewSemesterScheduleRepo(db),
		ExceptionDay: NewExceptionDayRepo(db),
		Leave:        NewLeaveRequestRepo(db),
		OD:           NewODRequestRepo(db),
		Attendance:   NewAttendanceRepo(db),
	}
}

// StudentFilter narrows the student population. Nil fields do not filter.
type StudentFilter struct {
	Batch   *int
	TutorID *string
}

// scopeStudents filters the students table itself
func scopeStudents(f StudentFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Batch != nil {
			db = db.Where("students.batch = ?", *f.Batch)
		}
		if f.TutorID != nil {
			db = db.Where("students.tutor_id = ?", *f.TutorID)
		}
		return db
	}
}

// populationSQL returns a student_id subquery and its named args
func populationSQL(f StudentFilter) (string, map[string]interface{}) {
	query := "SELECT student_id FROM students WHERE deleted_at IS NULL"
	args := map[string]interface{}{}
	if f.Batch != nil {
		query += " AND batch = @batch"
		args["batch"] = *f.Batch
	}
	if f.TutorID != nil {
		query += " AND tutor_id = @tutor_id"
		args["tutor_id"] = *f.TutorID
	}
	return query, args
}
