package dto

// CreateLeaveRequest POST /requests/leave
type CreateLeaveRequest struct {
	StartDate    string `json:"start_date"    binding:"required,ymd"`
	EndDate      string `json:"end_date"      binding:"required,ymd"`
	DurationType string `json:"duration_type" binding:"omitempty,oneof=full half"`
	Reason       string `json:"reason"        binding:"required,notblank,max=1000"`
}

// CreateODRequest POST /requests/od
type CreateODRequest struct {
	StartDate    string `json:"start_date"    binding:"required,ymd"`
	EndDate      string `json:"end_date"      binding:"required,ymd"`
	DurationType string `json:"duration_type" binding:"omitempty,oneof=full half"`
	EventName    string `json:"event_name"    binding:"required,notblank,max=200"`
	Reason       string `json:"reason"        binding:"max=1000"`
}

// LeaveRequestResponse one leave request
type LeaveRequestResponse struct {
	ID           string `json:"id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationType string `json:"duration_type"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// ODRequestResponse one OD request
type ODRequestResponse struct {
	ID           string `json:"id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationType string `json:"duration_type"`
	EventName    string `json:"event_name"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// MyRequestsResponse GET /requests/me
type MyRequestsResponse struct {
	Leaves []LeaveRequestResponse `json:"leaves"`
	ODs    []ODRequestResponse    `json:"ods"`
}
