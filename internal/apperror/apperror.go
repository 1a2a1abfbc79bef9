// Package apperror provides the pipeline error taxonomy.
// Every failure surfaced to a client is an *AppError carrying one Kind.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	InvalidInputType          Kind = "invalid_input_type"
	CompressionBudgetExceeded Kind = "compression_budget_exceeded"
	SegmentationFailure       Kind = "segmentation_failure"
	TranscriptionCallFailure  Kind = "transcription_call_failure"
	SummarizationCallFailure  Kind = "summarization_call_failure"
	MissingTranscript         Kind = "missing_transcript"
	Internal                  Kind = "internal"
)

// AppError is the base error type with a kind and optional metadata.
type AppError struct {
	Kind     Kind
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus maps the kind onto the response status code.
func (e *AppError) HTTPStatus() int {
	if e.Kind == InvalidInputType {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Detail is the human readable message returned to clients.
func (e *AppError) Detail() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// New creates a new AppError with the given kind and message.
func New(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to an AppError.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// As finds the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind checks if any error in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Ensure returns err as an *AppError, wrapping unknown errors as Internal.
func Ensure(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Wrap(err, Internal, "internal error")
}
