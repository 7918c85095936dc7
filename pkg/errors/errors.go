// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002
	CodeUnauthorized  = 1003

	// Validation errors (1100-1199)
	CodeValidationFailed = 1100
	CodeUnknownOperation = 1101
	CodeMissingParam     = 1102
	CodeParamOutOfRange  = 1103

	// Compilation errors (1200-1299)
	CodeCompileFailed      = 1200
	CodeSubtitleNotFound   = 1201
	CodePreviewUnsupported = 1202
	CodeInvalidTimeWindow  = 1203

	// Execution errors (1300-1399)
	CodeRenderFailed   = 1300
	CodeRenderTimeout  = 1301
	CodeProbeFailed    = 1302
	CodeAudioExtract   = 1303
	CodeAllStrategies  = 1304

	// Template errors (1400-1499)
	CodeTemplateNotFound = 1400
	CodeTemplateFailed   = 1401

	// Storage errors (1500-1599)
	CodeDBError        = 1500
	CodeFileNotFound   = 1501
	CodeFileWriteError = 1502

	// Caption errors (1600-1699)
	CodeTranscribeFailed = 1600
	CodeCaptionWrite     = 1601
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")
	ErrUnauthorized  = New(CodeUnauthorized, "Unauthorized")

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Operation validation failed")
	ErrUnknownOperation = New(CodeUnknownOperation, "Unknown operation kind")

	// Compilation
	ErrCompileFailed      = New(CodeCompileFailed, "Filter compilation failed")
	ErrSubtitleNotFound   = New(CodeSubtitleNotFound, "Subtitle file not found")
	ErrPreviewUnsupported = New(CodePreviewUnsupported, "Operation not supported on preview path")

	// Execution
	ErrRenderFailed  = New(CodeRenderFailed, "Render failed")
	ErrRenderTimeout = New(CodeRenderTimeout, "Render timed out")
	ErrProbeFailed   = New(CodeProbeFailed, "Media probe failed")
	ErrAllStrategies = New(CodeAllStrategies, "All render strategies failed")

	// Template
	ErrTemplateNotFound = New(CodeTemplateNotFound, "Template not found")

	// Storage
	ErrDBError      = New(CodeDBError, "Database error")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")

	// Captions
	ErrTranscribeFailed = New(CodeTranscribeFailed, "Transcription failed")
)
