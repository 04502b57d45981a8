package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJsonResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJsonResponse(context.Background(), rec, map[string]string{"X-Test": "1"}, map[string]interface{}{
		"status":     StatusSuccess,
		"statusCode": http.StatusCreated,
		"message":    "created",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ValueHeaderApplicationJson, rec.Header().Get(KeyHeaderContentType))
	assert.Equal(t, "1", rec.Header().Get("X-Test"))

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "created", body["message"])
	assert.EqualValues(t, http.StatusCreated, body["statusCode"])
}

func TestWriteFailed(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFailed(context.Background(), rec, http.StatusNotFound, errors.New("not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, StatusFailed, body["status"])
	assert.Equal(t, "not found", body["message"])
}
