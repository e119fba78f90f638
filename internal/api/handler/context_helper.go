package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dormhop/backend/pkg/response"
)

// MustGetUserID extracts the user_id injected by the JWT middleware.
// On failure it writes a 401; callers return when ok is false.
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

// tokenInfo jti and expiry of the bearer token of this request
func tokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString("token_jti")
	exp, ok := c.Get("token_exp")
	if jti == "" || !ok {
		return "", time.Time{}, false
	}
	t, ok := exp.(time.Time)
	return jti, t, ok
}

// bindJSON binds the body into req, answering 413 or 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return false
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", err.Error())
	return false
}

// internalError records err for the request logger and answers 500
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.InternalError(c)
}
