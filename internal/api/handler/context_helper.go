package handler

import (
	"github.com/gin-gonic/gin"

	"od-portal/backend/internal/service"
	"od-portal/backend/pkg/response"
)

// MustGetUserID extracts user_id set by the JWT middleware.
// On false a 401 has already been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetRole extracts role set by the JWT middleware.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetCaller combines MustGetUserID and MustGetRole
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Role: role}, true
}
