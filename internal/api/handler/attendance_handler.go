package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/response"
)

// AttendanceHandler daily leave/OD headcounts for dashboards
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Daily returns one point per day of the resolved interval
// GET /api/v1/attendance/daily
func (h *AttendanceHandler) Daily(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.Daily(c.Request.Context(), caller, &q)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleAttendanceError maps interval and population errors; shared with
// the report download
func handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIntervalRequired), errors.Is(err, service.ErrSemesterNotScheduled):
		response.BadRequest(c, 23001, "select dates")
	case errors.Is(err, service.ErrIncompleteRange):
		response.BadRequest(c, 23002, "start_date and end_date must be given together")
	case errors.Is(err, service.ErrSemesterNeedsBatch):
		response.BadRequest(c, 23003, "the semester filter requires a batch")
	case errors.Is(err, service.ErrPopulationDenied):
		response.Forbidden(c, 23004, "attendance data is limited to admins and tutors")
	case errors.Is(err, service.ErrInvalidSemester):
		response.BadRequest(c, 20003, "semester must be between 1 and 8")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, "invalid date, expected YYYY-MM-DD")
	default:
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
	}
}
