package dto

// AttendanceQuery filters shared by the daily series and the report download.
// start_date and end_date are sent together or not at all.
type AttendanceQuery struct {
	Batch     *int   `form:"batch"      binding:"omitempty,min=1900,max=2999"`
	Semester  *int   `form:"semester"   binding:"omitempty,min=1,max=8"`
	StartDate string `form:"start_date" binding:"omitempty,ymd"`
	EndDate   string `form:"end_date"   binding:"omitempty,ymd"`
}

// ReportQuery GET /reports/attendance
type ReportQuery struct {
	AttendanceQuery
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv pdf"`
}

// DailyPoint one day of the series
type DailyPoint struct {
	Date         string `json:"date"`
	LeaveCount   int    `json:"leave_count"`
	ODCount      int    `json:"od_count"`
	ExceptionDay string `json:"exception_day,omitempty"`
}

// DailySeriesResponse GET /attendance/daily
type DailySeriesResponse struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Source    string       `json:"source"`
	Series    []DailyPoint `json:"series"`
}
