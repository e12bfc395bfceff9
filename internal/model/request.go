package model

import (
	"time"

	"od-portal/backend/internal/academic"
)

// request status
const (
	StatusPending   = "Pending"
	StatusForwarded = "Forwarded"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

// duration type; half days count as whole days in aggregation
const (
	DurationFull = "full"
	DurationHalf = "half"
)

// LeaveRequest leave application, table leave_requests
type LeaveRequest struct {
	LeaveRequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_request_id"`
	StudentID      string    `gorm:"type:uuid;not null;index"                       json:"student_id"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	DurationType   string    `gorm:"type:varchar(10);not null;default:'full'"       json:"duration_type"`
	Reason         string    `gorm:"type:text;not null;default:''"                  json:"reason"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Pending'"    json:"status"`
	SoftDeleteModel
}

// TableName table name
func (LeaveRequest) TableName() string { return "leave_requests" }

// ODRequest on-duty application, table od_requests
type ODRequest struct {
	ODRequestID  string    `gorm:"column:od_request_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"od_request_id"`
	StudentID    string    `gorm:"type:uuid;not null;index"                       json:"student_id"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	DurationType string    `gorm:"type:varchar(10);not null;default:'full'"       json:"duration_type"`
	EventName    string    `gorm:"type:varchar(200);not null;default:''"          json:"event_name"`
	Reason       string    `gorm:"type:text;not null;default:''"                  json:"reason"`
	Status       string    `gorm:"type:varchar(20);not null;default:'Pending'"    json:"status"`
	SoftDeleteModel
}

// TableName table name
func (ODRequest) TableName() string { return "od_requests" }

// RequestSpan projection of an approved request used for aggregation
type RequestSpan struct {
	StudentID string
	StartDate time.Time
	EndDate   time.Time
}

// Spans converts projections for the aggregator
func Spans(rows []RequestSpan) []academic.Span {
	out := make([]academic.Span, 0, len(rows))
	for _, r := range rows {
		out = append(out, academic.Span{StudentID: r.StudentID, Start: r.StartDate, End: r.EndDate})
	}
	return out
}
