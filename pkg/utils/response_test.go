package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"probe-wizard/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, "req-1", SessionCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body SuccessResponse[map[string]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "abc", body.Data["id"])
}

func TestFromAppErrorUsesKind(t *testing.T) {
	rec := httptest.NewRecorder()
	FromAppError(rec, "req-2", apperror.Newf(apperror.NotFound, "repo.config.get", "config not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, apperror.NotFound, body.Error.Kind)
	assert.Equal(t, "config not found", body.Error.Message)
}

func TestFromAppErrorHidesPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	FromAppError(rec, "", errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteRaw(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteRaw(rec, http.StatusOK, "application/yaml", []byte("probes: []\n"))

	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "probes: []\n", rec.Body.String())
}
