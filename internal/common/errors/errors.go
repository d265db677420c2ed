// Package errors provides the standardized error taxonomy for attrition predictions.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeUnknownCategory: a raw categorical value is outside its fixed enumeration.
	ErrCodeUnknownCategory ErrorCode = "UNKNOWN_CATEGORY"
	// ErrCodeSchemaMismatch: an assembled row does not match an artifact's declared columns.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
	// ErrCodeArtifactLoadFailure: model or scaler cannot be located, decoded or paired.
	ErrCodeArtifactLoadFailure ErrorCode = "ARTIFACT_LOAD_FAILURE"

	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePredictionFailed ErrorCode = "PREDICTION_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, &StandardError{Code: ErrCodeSchemaMismatch}).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewUnknownCategoryError reports a categorical value outside its enumeration.
func NewUnknownCategoryError(field, value string, allowed []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   fmt.Sprintf("Unknown value for %s", field),
		Details:   fmt.Sprintf("field: %s, value: %q, allowed: [%s]", field, value, strings.Join(allowed, ", ")),
		Retryable: false,
		Metadata: map[string]interface{}{
			"field": field,
			"value": value,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaMismatchError reports a column-set difference between a row and an artifact schema.
func NewSchemaMismatchError(stage string, missing, unexpected []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaMismatch,
		Message:   fmt.Sprintf("Column set does not match the %s schema", stage),
		Details:   fmt.Sprintf("missing: [%s], unexpected: [%s]", strings.Join(missing, ", "), strings.Join(unexpected, ", ")),
		Retryable: false,
		Metadata: map[string]interface{}{
			"stage":      stage,
			"missing":    missing,
			"unexpected": unexpected,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactLoadFailureError reports an artifact that cannot be served.
func NewArtifactLoadFailureError(artifact string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactLoadFailure,
		Message:   fmt.Sprintf("Failed to load artifact %s", artifact),
		Details:   err.Error(),
		Retryable: false,
		Metadata: map[string]interface{}{
			"artifact": artifact,
		},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidInputError reports a malformed or out-of-range request field.
func NewInvalidInputError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   fmt.Sprintf("Invalid value for %s", field),
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"field": field,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionFailedError wraps a failure inside the scaler or classifier.
func NewPredictionFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionFailed,
		Message:   fmt.Sprintf("Prediction failed during %s", stage),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Conversion
// ==========================

// As extracts a StandardError from err, normalizing unknown errors to INTERNAL_ERROR.
func As(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return As(err).Code
}

// HTTPStatus maps an error code to the status the web surface responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnknownCategory, ErrCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case ErrCodeArtifactLoadFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the recommended retry count. Every code in this taxonomy
// is a configuration or input error, so none are retried.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnknownCategory, ErrCodeInvalidInput:
		return "VALIDATION"
	case ErrCodeSchemaMismatch, ErrCodeArtifactLoadFailure:
		return "INTEGRATION"
	case ErrCodePredictionFailed:
		return "MODEL"
	default:
		return "OTHER"
	}
}
