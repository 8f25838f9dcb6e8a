package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/gamma/summary", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", errors.New("session not found"), http.StatusNotFound, TypeNotFound},
		{"missing columns", errors.New("missing required columns: strike"), http.StatusBadRequest, TypeMissingColumns},
		{"parse failure", errors.New("failed to parse chain file"), http.StatusUnprocessableEntity, TypeParseFailed},
		{"rate limit", errors.New("rate limit exceeded"), http.StatusTooManyRequests, TypeRateLimit},
		{"payload too large", errors.New("payload too large"), http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"generic", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
		})
	}
}

func TestErrorToProblem_ContextCancelled(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/chain", nil)

	pd := h.ErrorToProblem(context.DeadlineExceeded, req)
	assert.Equal(t, http.StatusGatewayTimeout, pd.Status)
	assert.Equal(t, TypeTimeout, pd.Type)
}

func TestErrorToProblem_APIError(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)

	pd := h.ErrorToProblem(ErrSessionNotFound, req)
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, TypeNotFound, pd.Type)
	assert.Equal(t, "SESSION_NOT_FOUND", pd.Extensions["error_code"])

	pd = h.ErrorToProblem(ErrParseFailed, req)
	assert.Equal(t, TypeParseFailed, pd.Type)

	pd = h.ErrorToProblem(ErrUploadTooLarge, req)
	assert.Equal(t, TypePayloadTooLarge, pd.Type)
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/chain/upload", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrParseFailed)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeParseFailed, body["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
}

func TestHandleError_NilError(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, nil)
	assert.Empty(t, rec.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, body["type"])
}

func TestHandlerMiddleware_RecoversPanic(t *testing.T) {
	h := testHandler()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/gamma", nil)
	rec := httptest.NewRecorder()

	h.Middleware(panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
}
