package dto

// CreateExceptionDayRequest POST /exception-days
type CreateExceptionDayRequest struct {
	Date        string `json:"date"        binding:"required,ymd"`
	Reason      string `json:"reason"      binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ExceptionDayListRequest optional inclusive bounds
type ExceptionDayListRequest struct {
	From string `form:"from" binding:"omitempty,ymd"`
	To   string `form:"to"   binding:"omitempty,ymd"`
}

// RangeCheckRequest GET /exception-days/check
type RangeCheckRequest struct {
	StartDate string `form:"start_date" binding:"required,ymd"`
	EndDate   string `form:"end_date"   binding:"required,ymd"`
}

// ExceptionDayResponse one exception day
type ExceptionDayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// CollisionResponse one requested day that is an exception day
type CollisionResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// RangeCheckResponse form preview of a request range
type RangeCheckResponse struct {
	Allowed    bool                `json:"allowed"`
	Collisions []CollisionResponse `json:"collisions"`
}

// ExceptionDayImportResponse POST /exception-days/import
type ExceptionDayImportResponse struct {
	Created []ExceptionDayResponse `json:"created"`
	Skipped int                    `json:"skipped"`
}
