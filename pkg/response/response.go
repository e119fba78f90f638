package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "dormhop/backend/pkg/errors"
)

// Response uniform JSON envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ── success ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// ── errors ──

// Error generic error response
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails error response with details
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// FromError writes a classified business error; unclassified errors become 500
func FromError(c *gin.Context, code int, err error) {
	kind := pkgerrors.KindOf(err)
	if kind == pkgerrors.KindInternal {
		InternalError(c)
		return
	}
	Error(c, StatusForKind(kind), code, err.Error())
}

// StatusForKind maps an error kind to its HTTP status
func StatusForKind(kind pkgerrors.Kind) int {
	switch kind {
	case pkgerrors.KindInvalidInput:
		return http.StatusBadRequest
	case pkgerrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case pkgerrors.KindForbidden:
		return http.StatusForbidden
	case pkgerrors.KindNotFound:
		return http.StatusNotFound
	case pkgerrors.KindConflict:
		return http.StatusConflict
	case pkgerrors.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case pkgerrors.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ── shortcuts ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "internal server error")
}
