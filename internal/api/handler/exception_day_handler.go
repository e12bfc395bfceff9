package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/response"
)

// ExceptionDayHandler administrator-declared exception days
type ExceptionDayHandler struct {
	exceptionSvc service.ExceptionDayService
}

// NewExceptionDayHandler creates an ExceptionDayHandler
func NewExceptionDayHandler(exceptionSvc service.ExceptionDayService) *ExceptionDayHandler {
	return &ExceptionDayHandler{exceptionSvc: exceptionSvc}
}

// List lists exception days, optionally bounded by from/to
// GET /api/v1/exception-days
func (h *ExceptionDayHandler) List(c *gin.Context) {
	var req dto.ExceptionDayListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.exceptionSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Create declares an exception day. 201 when a row was inserted, 200 when
// the date was already registered.
// POST /api/v1/exception-days
func (h *ExceptionDayHandler) Create(c *gin.Context) {
	var req dto.CreateExceptionDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	day, created, err := h.exceptionSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	if created {
		response.Created(c, day)
		return
	}
	response.OK(c, day)
}

// Delete removes an exception day
// DELETE /api/v1/exception-days/:id
func (h *ExceptionDayHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, codeInvalidParams, "exception day id is required")
		return
	}

	if err := h.exceptionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	response.OK(c, nil)
}

// Check previews whether a request range collides with exception days
// GET /api/v1/exception-days/check
func (h *ExceptionDayHandler) Check(c *gin.Context) {
	var req dto.RangeCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.exceptionSvc.CheckRange(c.Request.Context(), &req)
	if err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	response.OK(c, resp)
}

// CalendarFeed serves all exception days as an iCalendar file
// GET /api/v1/exception-days/calendar.ics
func (h *ExceptionDayHandler) CalendarFeed(c *gin.Context) {
	feed, err := h.exceptionSvc.ExportICS(c.Request.Context())
	if err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename*=UTF-8''"+url.QueryEscape("exception-days.ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// Import creates exception days from an uploaded iCalendar file
// POST /api/v1/exception-days/import (multipart field "file")
func (h *ExceptionDayHandler) Import(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 21003, "upload an .ics file in the 'file' field")
		return
	}
	defer file.Close()

	if header.Size > service.ICSMaxFileSize {
		h.handleExceptionDayError(c, service.ErrICSTooLarge)
		return
	}

	resp, err := h.exceptionSvc.ImportICS(c.Request.Context(), file, callerID)
	if err != nil {
		h.handleExceptionDayError(c, err)
		return
	}

	response.Created(c, resp)
}

// handleExceptionDayError maps exception day errors
func (h *ExceptionDayHandler) handleExceptionDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExceptionDayNotFound):
		response.NotFound(c, 21001, "exception day not found")
	case errors.Is(err, service.ErrInvalidICS):
		response.BadRequest(c, 21002, "invalid iCalendar file")
	case errors.Is(err, service.ErrICSTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 21004, "iCalendar file exceeds 2 MB")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, "invalid date, expected YYYY-MM-DD")
	default:
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
	}
}
