package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
	pkgerrors "od-portal/backend/pkg/errors"
	"od-portal/backend/pkg/response"
)

// ReportHandler attendance report downloads
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Download renders the attendance report in the requested format
// GET /api/v1/reports/attendance?format=xlsx|csv|pdf
func (h *ReportHandler) Download(c *gin.Context) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	artifact, err := h.reportSvc.Generate(c.Request.Context(), caller, &q)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(artifact.Filename))
	c.Header("X-Report-Source", string(artifact.Meta.Source))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body.Bytes())
}

// handleReportError maps report errors
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	if pkgerrors.IsExportGeneration(err) {
		response.Error(c, http.StatusInternalServerError, 24001, "report generation failed, try again or pick another format")
		return
	}
	handleAttendanceError(c, err)
}
