package dto

// ── Batch / semester requests ──

// BatchURI path parameter :batch
type BatchURI struct {
	Batch int `uri:"batch" binding:"required,min=1900,max=2999"`
}

// SemesterURI path parameters :batch/:semester
type SemesterURI struct {
	Batch    int `uri:"batch"    binding:"required,min=1900,max=2999"`
	Semester int `uri:"semester" binding:"required,min=1,max=8"`
}

// UpdateSemesterScheduleRequest sets the dates of one semester. A nil date
// clears it; Version, when sent, must match the stored row.
type UpdateSemesterScheduleRequest struct {
	StartDate *string `json:"start_date" binding:"omitempty,ymd"`
	EndDate   *string `json:"end_date"   binding:"omitempty,ymd"`
	Version   *int    `json:"version"    binding:"omitempty,min=1"`
}

// ── Batch / semester responses ──

// BatchListResponse known batches
type BatchListResponse struct {
	Batches []int `json:"batches"`
}

// SemesterStateResponse one semester of a batch overview
type SemesterStateResponse struct {
	Semester  int     `json:"semester"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Scheduled bool    `json:"scheduled"`
	Locked    bool    `json:"locked"`
	Active    bool    `json:"active"`
	Version   int     `json:"version"`
}

// SemesterOverviewResponse all eight semesters of a batch
type SemesterOverviewResponse struct {
	Batch          int                     `json:"batch"`
	ActiveSemester int                     `json:"active_semester"`
	Semesters      []SemesterStateResponse `json:"semesters"`
}

// ActiveSemesterResponse GET /batches/:batch/semesters/active
type ActiveSemesterResponse struct {
	Batch          int `json:"batch"`
	ActiveSemester int `json:"active_semester"`
}

// SemesterRangeResponse a scheduled semester; EndDate is null while open
type SemesterRangeResponse struct {
	Batch     int     `json:"batch"`
	Semester  int     `json:"semester"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}
