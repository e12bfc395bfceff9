package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/response"
)

// CalendarHandler batches and per-batch semester schedules
type CalendarHandler struct {
	calendarSvc service.TermCalendarService
}

// NewCalendarHandler creates a CalendarHandler
func NewCalendarHandler(calendarSvc service.TermCalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ListBatches lists known batches
// GET /api/v1/batches
func (h *CalendarHandler) ListBatches(c *gin.Context) {
	resp, err := h.calendarSvc.ListBatches(c.Request.Context())
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, resp)
}

// Overview returns all eight semester states of a batch
// GET /api/v1/batches/:batch/semesters
func (h *CalendarHandler) Overview(c *gin.Context) {
	var uri dto.BatchURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.calendarSvc.Overview(c.Request.Context(), uri.Batch)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, resp)
}

// GetActiveSemester returns the batch's active semester as of today
// GET /api/v1/batches/:batch/semesters/active
func (h *CalendarHandler) GetActiveSemester(c *gin.Context) {
	var uri dto.BatchURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.calendarSvc.GetActiveSemester(c.Request.Context(), uri.Batch)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, resp)
}

// GetDateRange returns the scheduled dates of one semester
// GET /api/v1/batches/:batch/semesters/:semester/range
func (h *CalendarHandler) GetDateRange(c *gin.Context) {
	var uri dto.SemesterURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.calendarSvc.GetDateRange(c.Request.Context(), uri.Batch, uri.Semester)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, resp)
}

// UpdateSchedule sets the dates of one semester
// PUT /api/v1/batches/:batch/semesters/:semester
func (h *CalendarHandler) UpdateSchedule(c *gin.Context) {
	var uri dto.SemesterURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindFailed(c, err)
		return
	}

	var req dto.UpdateSemesterScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.calendarSvc.UpdateSchedule(c.Request.Context(), uri.Batch, uri.Semester, &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleCalendarError maps term calendar errors
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotScheduled):
		response.NotFound(c, 20001, "select dates")
	case errors.Is(err, service.ErrSemesterLocked):
		response.Conflict(c, 20002, "semester is locked until the previous semester has ended")
	case errors.Is(err, service.ErrInvalidSemester):
		response.BadRequest(c, 20003, "semester must be between 1 and 8")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, service.ErrEndWithoutStart):
		response.BadRequest(c, 20005, "end_date requires start_date")
	default:
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
	}
}
