// Package errors provides standardized error handling for the quote pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAnalysisRejected   ErrorCode = "ANALYSIS_REJECTED"
	ErrCodeInvalidDrawingFile ErrorCode = "INVALID_DRAWING_FILE"

	ErrCodeWizardGuardFailed ErrorCode = "WIZARD_GUARD_FAILED"
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeQuotePersistFailed     ErrorCode = "QUOTE_PERSIST_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// NewAnalysisRejectedError marks a success:false response from the analysis service.
func NewAnalysisRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisRejected,
		Message:   "DXF analysis service rejected the drawing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidDrawingFileError creates a non-retryable file validation error.
func NewInvalidDrawingFileError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidDrawingFile,
		Message:   "Drawing file failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWizardGuardFailedError creates a non-retryable step transition error.
func NewWizardGuardFailedError(step, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWizardGuardFailed,
		Message:   fmt.Sprintf("Cannot advance from step '%s'", step),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Wizard session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotePersistFailedError creates a retryable persistence error.
func NewQuotePersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotePersistFailed,
		Message:   "Failed to persist quote record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Quote notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
