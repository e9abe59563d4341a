package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "tush00nka/marketplace_chat/docs"
	"tush00nka/marketplace_chat/internal/ws"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	hub := ws.NewHub()
	t.Cleanup(hub.Shutdown)

	registry := prometheus.NewRegistry()
	registry.MustRegister(hub.Collector())

	return NewServer(ServerDeps{Gatherer: registry})
}

func TestCORSPreflightRequest(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/chats", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Headers"),
		"Access-Control-Allow-Headers should not be empty for OPTIONS request")
}

func TestCORSWithActualRequest(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	req.Header.Set("Origin", "http://example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/chats/{id}/messages")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	server := NewServer(ServerDeps{Origins: []string{"https://shop.example.com"}})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Pong"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chat_ws_connections")
}
