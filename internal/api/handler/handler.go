package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/service"
)

// Handler aggregate entry for all handlers
type Handler struct {
	Calendar     *CalendarHandler
	ExceptionDay *ExceptionDayHandler
	Request      *RequestHandler
	Attendance   *AttendanceHandler
	Report       *ReportHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Calendar:     NewCalendarHandler(svc.TermCalendar),
		ExceptionDay: NewExceptionDayHandler(svc.ExceptionDay),
		Request:      NewRequestHandler(svc.Request),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Report:       NewReportHandler(svc.Report),
	}
}

// RegisterBindings installs the dto validation tags on gin's binding engine.
// Must run before the first request is bound.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return dto.RegisterValidators(v)
}
