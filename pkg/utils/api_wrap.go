package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// statusFor maps service sentinels onto HTTP status codes and the message
// shown to the caller. Unknown errors are reported as a generic 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100"
	case errors.Is(err, ErrInvalidPriceRange),
		errors.Is(err, ErrListingTypeRequired),
		errors.Is(err, ErrInvalidListing),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrUnknownPackage),
		errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest, capitalize(err.Error())
	case errors.Is(err, ErrListingNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrAdminNotFound):
		return http.StatusNotFound, capitalize(err.Error())
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidIDToken),
		errors.Is(err, ErrInvalidResetToken):
		return http.StatusUnauthorized, capitalize(err.Error())
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrAccountSuspended),
		errors.Is(err, ErrAdminNotApproved),
		errors.Is(err, ErrListingQuotaExceeded):
		return http.StatusForbidden, capitalize(err.Error())
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, ErrFederatedLoginOff):
		return http.StatusServiceUnavailable, "Federated login is not available"
	case errors.Is(err, ErrContactDelivery):
		return http.StatusBadGateway, "Failed to submit message, please try again"
	case errors.Is(err, ErrStorageError):
		return http.StatusBadGateway, "Failed to store images, please try again"
	case errors.Is(err, ErrDatabaseError):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := statusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("trace_id", traceID(c)), zap.Error(err))
	}
	RespondError(c, code, message)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
