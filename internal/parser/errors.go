package parser

import (
	"errors"

	"resume-parser/internal/extract"
)

var (
	// ErrEmptyText is returned when the resume text is blank after normalization.
	ErrEmptyText = errors.New("resume text is empty")
	// ErrInvalidResponse is returned when the model's output could not be
	// interpreted as the expected structured shape after retries.
	ErrInvalidResponse = errors.New("model response did not match the expected shape")
	// ErrQuotaExceeded is returned when the model throttled the call beyond the retry budget.
	ErrQuotaExceeded = errors.New("model quota exceeded")
	// ErrTransient is returned when the model call failed beyond the retry budget.
	ErrTransient = errors.New("transient model failure")
)

const (
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrorCodeCorruptFile       = "CORRUPT_FILE"
	ErrorCodeInvalidResponse   = "INVALID_RESPONSE"
	ErrorCodeQuotaExceeded     = "QUOTA_EXCEEDED"
	ErrorCodeTransient         = "TRANSIENT_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

// ErrorCode maps a failure to its stable taxonomy code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyText):
		return ErrorCodeValidation
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return ErrorCodeUnsupportedFormat
	case errors.Is(err, extract.ErrCorruptFile):
		return ErrorCodeCorruptFile
	case errors.Is(err, ErrInvalidResponse):
		return ErrorCodeInvalidResponse
	case errors.Is(err, ErrQuotaExceeded):
		return ErrorCodeQuotaExceeded
	case errors.Is(err, ErrTransient):
		return ErrorCodeTransient
	default:
		return ErrorCodeInternal
	}
}
