package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		want       int
		wantError  string
	}{
		{"matching key", "k-1234", "k-1234", http.StatusOK, ""},
		{"missing header", "k-1234", "", http.StatusUnauthorized, "Missing X-API-Key header"},
		{"wrong key", "k-1234", "k-9999", http.StatusUnauthorized, "Invalid API key"},
		{"prefix of key", "k-1234", "k-12", http.StatusUnauthorized, "Invalid API key"},
		{"key with extra suffix", "k-1234", "k-12345", http.StatusUnauthorized, "Invalid API key"},
		{"check disabled", "", "", http.StatusOK, ""},
		{"check disabled ignores header", "", "anything", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sniff", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			apiKeyMiddleware(tt.configured)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, reached)
			if tt.wantError != "" {
				var resp APIResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	sendSuccess(w, HashResponse{Path: "a/b.msh", ID: 0xCD833E70, Hex: "0xCD833E70"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var data HashResponse
	resp := APIResponse{Data: &data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, uint32(0xCD833E70), data.ID)
}

func TestSendError(t *testing.T) {
	for _, code := range []int{
		http.StatusBadRequest,
		http.StatusRequestEntityTooLarge,
		http.StatusUnsupportedMediaType,
		http.StatusUnprocessableEntity,
		http.StatusNotImplemented,
	} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			w := httptest.NewRecorder()
			sendError(w, "container rejected", code)

			assert.Equal(t, code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Data)
			assert.Equal(t, "container rejected", resp.Error)
		})
	}
}
