package pkg

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEndpoints(t *testing.T) {
	config := DefaultConfig()
	router := NewRouter(NewManager(config), config)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   map[string]string
	}{
		{"home", http.MethodGet, "/", "", http.StatusOK, map[string]string{
			"status": "Pairing server is running", "socket": SocketPath, "api_test": "/api/test"}},
		{"api test", http.MethodGet, "/api/test", "", http.StatusOK,
			map[string]string{"message": "API is working"}},
		{"health", http.MethodGet, "/api/health", "", http.StatusOK, nil},
		{"token", http.MethodPost, "/api/verify-token", `{"token":"abc"}`, http.StatusOK,
			map[string]string{"message": "Token received", "token": "abc"}},
		{"empty token", http.MethodPost, "/api/verify-token", `{"token":""}`, http.StatusBadRequest,
			map[string]string{"error": "No token provided"}},
		{"no body", http.MethodPost, "/api/verify-token", ``, http.StatusBadRequest,
			map[string]string{"error": "No token provided"}},
		{"wrong method", http.MethodGet, "/api/verify-token", "", http.StatusMethodNotAllowed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.want != nil {
				var got map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHealthHandlerDisablesCaching(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestSocketRejectsPlainRequests(t *testing.T) {
	config := DefaultConfig()
	router := NewRouter(NewManager(config), config)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, SocketPath, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
