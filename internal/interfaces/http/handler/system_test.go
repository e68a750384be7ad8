package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy with database", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(func() error { return nil }))

		w := performRequest(t, engine, http.MethodGet, "/api/v1/system/health", nil, uuid.New())
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "ok", data["database"])
	})

	t.Run("degraded when the database is down", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(func() error { return errors.New("dial tcp: refused") }))

		w := performRequest(t, engine, http.MethodGet, "/api/v1/system/health", nil, uuid.New())
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "degraded", data["status"])
	})

	t.Run("no database wired", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(nil))

		w := performRequest(t, engine, http.MethodGet, "/api/v1/system/health", nil, uuid.New())
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSystemHandler_Ping(t *testing.T) {
	engine := newTestEngine(NewSystemHandler(nil))

	w := performRequest(t, engine, http.MethodGet, "/api/v1/system/ping", nil, uuid.New())
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])
}
