package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_FindsWrappedStandardError(t *testing.T) {
	inner := NewSchemaMismatchError("scaler", []string{"target"}, nil)
	wrapped := fmt.Errorf("align: %w", inner)

	got := As(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeSchemaMismatch, got.Code)
	assert.Same(t, inner, got)
}

func TestAs_NormalizesPlainErrors(t *testing.T) {
	got := As(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "boom", got.Details)
	assert.Nil(t, As(nil))
}

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load: %w", NewArtifactLoadFailureError("model.json", stderrors.New("no such file")))

	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeArtifactLoadFailure}))
	assert.False(t, stderrors.Is(err, &StandardError{Code: ErrCodeSchemaMismatch}))
}

func TestArtifactLoadFailure_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := NewArtifactLoadFailureError("scaler.json", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "scaler.json", err.Metadata["artifact"])
}

func TestUnknownCategoryError_Details(t *testing.T) {
	err := NewUnknownCategoryError("gender", "Unknown", []string{"Female", "Male", "Other"})

	assert.Equal(t, ErrCodeUnknownCategory, err.Code)
	assert.Contains(t, err.Details, `"Unknown"`)
	assert.Contains(t, err.Details, "Female, Male, Other")
	assert.False(t, err.Retryable)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeUnknownCategory, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusUnprocessableEntity},
		{ErrCodeSchemaMismatch, http.StatusInternalServerError},
		{ErrCodePredictionFailed, http.StatusInternalServerError},
		{ErrCodeArtifactLoadFailure, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewUnknownCategoryError("company_size", "huge", nil)
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "UNKNOWN_CATEGORY", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "UNKNOWN_CATEGORY", vars["errorCode"])
	assert.Equal(t, "UNKNOWN_CATEGORY", vars["originalErrorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeUnknownCategory))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeSchemaMismatch))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeArtifactLoadFailure))
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodePredictionFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}
