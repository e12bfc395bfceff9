package model

import (
	"time"

	"od-portal/backend/internal/academic"
)

// ExceptionDay holiday or blocked date, table exception_days
type ExceptionDay struct {
	ExceptionDayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exception_day_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:uq_exception_days_date" json:"date"`
	Reason         string    `gorm:"type:varchar(200);not null"                     json:"reason"`
	Description    string    `gorm:"type:text;not null;default:''"                  json:"description"`
	BaseModel
}

// TableName table name
func (ExceptionDay) TableName() string { return "exception_days" }

// ToAcademic converts rows for the intake validator
func ToAcademic(days []ExceptionDay) []academic.ExceptionDay {
	out := make([]academic.ExceptionDay, 0, len(days))
	for _, d := range days {
		out = append(out, academic.ExceptionDay{Date: d.Date, Reason: d.Reason, Description: d.Description})
	}
	return out
}
