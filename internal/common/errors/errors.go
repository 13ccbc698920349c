// Package errors provides standardized error handling for the review service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeInterviewNotFound  ErrorCode = "INTERVIEW_NOT_FOUND"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeInterviewCompleted ErrorCode = "INTERVIEW_ALREADY_COMPLETED"
	ErrCodeInvalidStage       ErrorCode = "INVALID_STAGE"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeToolArgsInvalid  ErrorCode = "TOOL_ARGS_INVALID"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout      ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeReportIndexFailed  ErrorCode = "REPORT_INDEX_FAILED"
	ErrCodeReportNotFound     ErrorCode = "REPORT_NOT_FOUND"

	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMCallFailed      ErrorCode = "LLM_CALL_FAILED"
	ErrCodeSummaryFailed      ErrorCode = "SUMMARY_GENERATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeHRISSyncFailed         ErrorCode = "HRIS_SYNC_FAILED"

	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmployeeNotFoundError creates a non-retryable lookup error.
func NewEmployeeNotFoundError(employeeID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmployeeNotFound,
		Message:   "Employee not found",
		Details:   fmt.Sprintf("employeeId: %d", employeeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterviewNotFoundError creates a non-retryable lookup error.
func NewInterviewNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterviewNotFound,
		Message:   "Interview not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterviewCompletedError signals writes against a finished interview.
func NewInterviewCompletedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterviewCompleted,
		Message:   "Interview is already completed",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStageError creates a non-retryable stage error.
func NewInvalidStageError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStage,
		Message:   "Unknown interview stage",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolArgsInvalidError creates a non-retryable tool argument error.
func NewToolArgsInvalidError(tool, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolArgsInvalid,
		Message:   "Tool arguments failed schema validation",
		Details:   fmt.Sprintf("tool: %s, %s", tool, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(op string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", op),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable session persistence error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Report search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Report search timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportIndexFailedError creates a retryable indexing error.
func NewReportIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportIndexFailed,
		Message:   "Report indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportNotFoundError creates a non-retryable report lookup error.
func NewReportNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportNotFound,
		Message:   "Report not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Assistant model timeout",
		Details:   "model call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMCallFailedError creates a retryable LLM error.
func NewLLMCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMCallFailed,
		Message:   "Assistant model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSummaryFailedError creates a retryable summary generation error.
func NewSummaryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSummaryFailed,
		Message:   "Final summary generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHRISSyncFailedError creates a retryable HRIS connector error.
func NewHRISSyncFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHRISSyncFailed,
		Message:   "HRIS synchronization failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable auth error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeReportIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeHRISSyncFailed,
		ErrCodeLLMCallFailed,
		ErrCodeSummaryFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EMPLOYEE") || strings.Contains(codeStr, "HRIS"):
		return "EMPLOYEE"
	case strings.Contains(codeStr, "INTERVIEW") || strings.Contains(codeStr, "STAGE"):
		return "INTERVIEW"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "SUMMARY") || strings.Contains(codeStr, "TOOL"):
		return "AI"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
