package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/internal/services"
	"gexcli/internal/store"
	"gexcli/pkg/contracts/domain"
)

func testSessionStore(t *testing.T) *store.SessionStore {
	t.Helper()
	kv, err := store.New(filepath.Join(t.TempDir(), "store.json"), testLogger())
	require.NoError(t, err)
	return store.NewSessionStore(kv)
}

func seedSession(t *testing.T, sessions *store.SessionStore, id, name string) {
	t.Helper()
	require.True(t, sessions.Save(domain.Session{
		ID:              id,
		Name:            name,
		Symbol:          "SPX",
		UploadedAt:      time.Now().UTC(),
		OptionCount:     5,
		UnderlyingPrice: 4500,
	}))
}

func TestSessionHandler_List(t *testing.T) {
	sessions := testSessionStore(t)
	seedSession(t, sessions, "a", "first")
	seedSession(t, sessions, "b", "second")

	handler := NewSessionHandler(services.NewSessionService(sessions, testLogger()), testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
}

func TestSessionHandler_Get(t *testing.T) {
	sessions := testSessionStore(t)
	seedSession(t, sessions, "a", "my session")

	handler := NewSessionHandler(services.NewSessionService(sessions, testLogger()), testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/a", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "my session")

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_NOT_FOUND")
}

func TestSessionHandler_Rename(t *testing.T) {
	sessions := testSessionStore(t)
	seedSession(t, sessions, "a", "original")

	handler := NewSessionHandler(services.NewSessionService(sessions, testLogger()), testLogger(), testErrorHandler())

	body := bytes.NewBufferString(`{"name":"renamed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/a", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	saved, ok := sessions.Get("a")
	require.True(t, ok)
	assert.Equal(t, "renamed", saved.Name)

	// Empty name is rejected
	req = httptest.NewRequest(http.MethodPatch, "/a", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_Delete(t *testing.T) {
	sessions := testSessionStore(t)
	seedSession(t, sessions, "a", "doomed")

	handler := NewSessionHandler(services.NewSessionService(sessions, testLogger()), testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodDelete, "/a", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := sessions.Get("a")
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodDelete, "/a", nil)
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
