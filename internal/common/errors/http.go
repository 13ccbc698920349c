package errors

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPHandler converts application errors into API responses.
type HTTPHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewHTTPHandler(logger Logger) *HTTPHandler {
	return &HTTPHandler{logger: logger}
}

// HTTPStatus maps internal error codes to HTTP status codes.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeEmployeeNotFound,
		ErrCodeInterviewNotFound,
		ErrCodeSessionNotFound,
		ErrCodeReportNotFound:
		return http.StatusNotFound

	case ErrCodeValidationFailed,
		ErrCodeToolArgsInvalid,
		ErrCodeInvalidStage:
		return http.StatusBadRequest

	case ErrCodeSessionExpired,
		ErrCodeInterviewCompleted:
		return http.StatusConflict

	case ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout

	case ErrCodeDatabaseConnectionFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeLLMCallFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeHRISSyncFailed:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// Respond writes a standard error envelope and logs the failure.
func (h *HTTPHandler) Respond(c *gin.Context, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"path":          c.FullPath(),
		"method":        c.Request.Method,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	c.AbortWithStatusJSON(HTTPStatus(stdErr.Code), gin.H{
		"success":   false,
		"message":   stdErr.Message,
		"error":     string(stdErr.Code),
		"details":   stdErr.Details,
		"timestamp": stdErr.Timestamp.Format(time.RFC3339),
	})
}

// normalizeError ensures we always have a StandardError.
func (h *HTTPHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		if stdErr.Timestamp.IsZero() {
			stdErr.Timestamp = time.Now().UTC()
		}
		return stdErr
	}
	return NewInternalError(err)
}
