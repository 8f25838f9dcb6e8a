package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"session not found", ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"upload too large", ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
		{"parse failed", ErrParseFailed, http.StatusUnprocessableEntity, "PARSE_FAILED"},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
		})
	}
}

func TestParseFailedError_CarriesRowErrors(t *testing.T) {
	rowErrors := []string{"row 3: invalid strike", "row 7: missing gamma"}
	err := ParseFailedError(rowErrors)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "PARSE_FAILED", err.ErrorCode)
	assert.Equal(t, rowErrors, err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("symbol", "must not be empty")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "symbol", detail.Field)
	assert.Equal(t, "must not be empty", detail.Message)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrSessionNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.ErrorCode)
}

func TestAppError_WrapsCause(t *testing.T) {
	cause := assert.AnError
	err := NewStorageError("failed to persist sessions", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "STORAGE")
	assert.Contains(t, err.Error(), "failed to persist sessions")
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).WithContext("row", 12)
	assert.Equal(t, 12, err.Context["row"])
}
