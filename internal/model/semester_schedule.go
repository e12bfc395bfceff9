package model

import (
	"time"

	"od-portal/backend/internal/academic"
)

// SemesterSchedule one (batch, semester) date window, table semester_schedules.
// A nil StartDate means the semester is not scheduled yet.
type SemesterSchedule struct {
	Batch     int        `gorm:"primaryKey;autoIncrement:false"  json:"batch"`
	Semester  int        `gorm:"primaryKey;autoIncrement:false;type:smallint" json:"semester"`
	StartDate *time.Time `gorm:"type:date"                       json:"start_date"`
	EndDate   *time.Time `gorm:"type:date"                       json:"end_date"`
	VersionedModel
}

// TableName table name
func (SemesterSchedule) TableName() string { return "semester_schedules" }

// Window converts the row for the semester resolver
func (s SemesterSchedule) Window() academic.SemesterWindow {
	return academic.SemesterWindow{
		Batch:    s.Batch,
		Semester: s.Semester,
		Start:    s.StartDate,
		End:      s.EndDate,
	}
}

// Windows converts a batch's rows
func Windows(rows []SemesterSchedule) []academic.SemesterWindow {
	out := make([]academic.SemesterWindow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Window())
	}
	return out
}
