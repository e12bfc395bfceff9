package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/response"
)

// RequestHandler leave and OD intake for the calling student
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler creates a RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// CreateLeave submits a leave request
// POST /api/v1/requests/leave
func (h *RequestHandler) CreateLeave(c *gin.Context) {
	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestSvc.CreateLeave(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, resp)
}

// CreateOD submits an on-duty request
// POST /api/v1/requests/od
func (h *RequestHandler) CreateOD(c *gin.Context) {
	var req dto.CreateODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestSvc.CreateOD(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, resp)
}

// ListMine lists the caller's leave and OD requests
// GET /api/v1/requests/me
func (h *RequestHandler) ListMine(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestSvc.ListMine(c.Request.Context(), studentID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleRequestError maps intake errors
func (h *RequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 22001, "no student record for this account")
	case errors.Is(err, service.ErrHalfDayMultiDate):
		response.BadRequest(c, 22002, "a half-day request must start and end on the same date")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, "invalid date, expected YYYY-MM-DD")
	default:
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
	}
}
