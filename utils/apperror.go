package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared across services. Every error a service returns to a
// handler carries one of these so the HTTP layer can map it to a status
// without inspecting message text.
const (
	CodeNotFound         = "notFound"
	CodePermissionDenied = "permissionDenied"
	CodeSlotUnavailable  = "slotUnavailable"
	CodeValidation       = "validationError"
	CodeUpstreamFailure  = "upstreamFailure"
)

// AppError is a service-level error with a machine-readable code.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewPermissionDenied(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func NewSlotUnavailable(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeSlotUnavailable, Message: fmt.Sprintf(format, args...)}
}

func NewValidation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamFailure(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeUpstreamFailure, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// RespondError writes a JSON error response with the HTTP status implied by
// the error code. Unknown errors become a 500 without leaking internals.
func RespondError(c *gin.Context, err error) {
	var ae *AppError
	if !errors.As(err, &ae) {
		GetLogger().Error("unhandled service error: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred"})
		return
	}

	status := http.StatusInternalServerError
	switch ae.Code {
	case CodeNotFound:
		status = http.StatusNotFound
	case CodePermissionDenied:
		status = http.StatusForbidden
	case CodeSlotUnavailable, CodeValidation:
		status = http.StatusBadRequest
	case CodeUpstreamFailure:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"message": ae.Message})
}
