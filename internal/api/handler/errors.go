package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/academic"
	"od-portal/backend/internal/dto"
	pkgerrors "od-portal/backend/pkg/errors"
	"od-portal/backend/pkg/response"
)

// shared business codes
const (
	codeInvalidParams   = 10001
	codeRangeRejected   = 10006
	codeVersionConflict = 10007
	codeDataUnavailable = 10008
)

// bindFailed writes a 400 listing the fields that failed binding
func bindFailed(c *gin.Context, err error) {
	if details := dto.FieldErrors(err); details != nil {
		response.ErrorWithDetails(c, 400, codeInvalidParams, "invalid parameters", details)
		return
	}
	response.BadRequest(c, codeInvalidParams, "invalid parameters")
}

// handleCommonError maps the pkg/errors taxonomy; false means err is not one
// of them and the caller falls through to its own default
func handleCommonError(c *gin.Context, err error) bool {
	if ve, ok := pkgerrors.IsValidation(err); ok {
		collisions := make([]dto.CollisionResponse, 0, len(ve.Collisions))
		for _, col := range ve.Collisions {
			collisions = append(collisions, dto.CollisionResponse{
				Date:   academic.FormatDate(col.Date),
				Reason: col.Reason,
			})
		}
		response.ErrorWithDetails(c, 400, codeRangeRejected, ve.Reason, gin.H{"collisions": collisions})
		return true
	}
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		response.Conflict(c, codeVersionConflict, pkgerrors.ErrOptimisticLock.Error())
		return true
	}
	if pkgerrors.IsDataUnavailable(err) {
		response.ServiceUnavailable(c, codeDataUnavailable, "data temporarily unavailable, retry shortly")
		return true
	}
	return false
}
