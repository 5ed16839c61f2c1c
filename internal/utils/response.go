package utils

import (
	"net/http"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response represents a standardized response structure.
// It includes a status code, a message, and data.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"` // Ensure data is always present, even if nil (will be null in JSON)
}

// NewResponse creates a new Response instance.
func NewResponse(status int, message string, data interface{}) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// NewSuccessResponse creates a new success Response instance.
// Defaults status to 200 (OK).
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{
		Status:  200,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates a new error Response instance.
// Data is explicitly set to nil.
func NewErrorResponse(status int, message string) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    nil,
	}
}

// HTTPStatus maps the service error taxonomy onto HTTP status codes.
func HTTPStatus(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Validation:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.SnippetNotFound:
		return http.StatusUnprocessableEntity
	case apperrors.ProviderUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.EmptyResponse, apperrors.Provider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the uniform error envelope for a service error,
// logging full diagnostic context server-side. Unexpected errors get a
// generic user-safe message.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	kind := apperrors.KindOf(err)

	logger.Log.Warn("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	)

	message := err.Error()
	if kind == apperrors.Unexpected {
		message = "An internal error occurred"
	}

	c.JSON(status, NewErrorResponse(status, message))
}
