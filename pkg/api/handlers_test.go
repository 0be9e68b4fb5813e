package api

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/dbckit/pkg/storage"
)

const materialText = "Material=1\r\nwater FFFFFFFF FFFFFFFF FF60DEE6 FF47607E 5\r\n"

func setupTestServer(t *testing.T, config ServerConfig) (*Server, http.Handler) {
	t.Helper()

	names, err := storage.NewDefaultStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = names.Close() })

	server := NewServer(names, config, prometheus.NewRegistry(), nil, nil)
	return server, server.Router()
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) APIResponse {
	t.Helper()
	resp := APIResponse{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestServer_handleHealth(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{})

	w := do(t, h, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	resp := decode(t, w, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.healthChecksTotal.WithLabelValues(statusSuccess)))
}

func TestServer_handleSniff(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	tests := []struct {
		name   string
		body   []byte
		schema string
		binary bool
		amount uint32
	}{
		{"text material", []byte(materialText), "material", false, 1},
		{"binary mesh", binary.LittleEndian.AppendUint32([]byte("MESH"), 3), "mesh", true, 3},
		{"text effect", []byte("[7]\r\nAmount=3\r\n"), "effect", false, 3},
		{"empty", nil, "undefined", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/api/v1/sniff", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var info struct {
				Binary bool   `json:"binary"`
				Schema string `json:"schema"`
				Amount uint32 `json:"amount"`
			}
			decode(t, w, &info)
			assert.Equal(t, tt.schema, info.Schema)
			assert.Equal(t, tt.binary, info.Binary)
			assert.Equal(t, tt.amount, info.Amount)
		})
	}
}

func TestServer_handleConvert(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{})

	w := do(t, h, "POST", "/api/v1/convert", []byte(materialText))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "material", w.Header().Get("X-Dbc-Schema"))
	assert.Equal(t, "binary", w.Header().Get("X-Dbc-Format"))
	assert.Equal(t, "0", w.Header().Get("X-Dbc-Skipped"))

	bin := w.Body.Bytes()
	require.Len(t, bin, 8+52)
	assert.Equal(t, []byte("MATR"), bin[:4])

	w = do(t, h, "POST", "/api/v1/convert?to=text", bin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, materialText+"\r\n", w.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.conversionsTotal.WithLabelValues("material", "binary", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.conversionsTotal.WithLabelValues("material", "text", statusSuccess)))
}

func TestServer_handleConvertErrors(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{MaxBodyBytes: 16})

	tests := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{"bad target", "/api/v1/convert?to=xml", []byte(materialText[:10]), http.StatusBadRequest},
		{"empty", "/api/v1/convert", nil, http.StatusUnsupportedMediaType},
		{"unknown layout", "/api/v1/convert", []byte("hello there\r\n"), http.StatusUnsupportedMediaType},
		{"malformed", "/api/v1/convert", []byte("[1]\r\nPart=6\r\n"), http.StatusUnprocessableEntity},
		{"too large", "/api/v1/convert", []byte(materialText), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			resp := decode(t, w, nil)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_handleHashAndNames(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := do(t, h, "GET", "/api/v1/hash?path=C3%5CEffect%5CFire.c3&index=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var hash HashResponse
	decode(t, w, &hash)
	assert.Equal(t, "c3/effect/fire.c3", hash.Normalized)
	assert.Equal(t, uint32(0x7D93510A), hash.ID)
	assert.Equal(t, "0x7D93510A", hash.Hex)
	assert.True(t, hash.Indexed)

	for _, id := range []string{"0x7D93510A", "2106806538"} {
		w = do(t, h, "GET", "/api/v1/names/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var names NamesResponse
		decode(t, w, &names)
		assert.Equal(t, []string{"c3/effect/fire.c3"}, names.Names)
	}

	w = do(t, h, "GET", "/api/v1/names/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"names":[]`)

	w = do(t, h, "GET", "/api/v1/names/zzz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/api/v1/hash", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/api/v1/hash?path="+strings.Repeat("a", 300), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_WithoutNameStore(t *testing.T) {
	h := NewServer(nil, ServerConfig{}, prometheus.NewRegistry(), nil, nil).Router()

	w := do(t, h, "GET", "/api/v1/hash?path=a/b.msh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":3447930480`)

	w = do(t, h, "GET", "/api/v1/hash?path=a/b.msh&index=1", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = do(t, h, "GET", "/api/v1/names/1", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestServer_APIKeyAndMetrics(t *testing.T) {
	server, h := setupTestServer(t, ServerConfig{APIKey: "test-key"})

	w := do(t, h, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.authRequestsTotal.WithLabelValues(statusSuccess)))

	// metrics are not behind the key
	w = do(t, h, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dbckit_http_requests_total")
}

func TestParseID(t *testing.T) {
	id, err := ParseID("0x514ff88f")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x514FF88F), id)

	id, err = ParseID("17")
	require.NoError(t, err)
	assert.Equal(t, uint32(17), id)

	_, err = ParseID("0x1FFFFFFFF")
	assert.Error(t, err)
}

func TestServer_Addr(t *testing.T) {
	s := NewServer(nil, ServerConfig{Bind: "127.0.0.1", Port: 9200}, prometheus.NewRegistry(), nil, nil)
	assert.Equal(t, "127.0.0.1:9200", s.Addr())
	assert.Equal(t, int64(DefaultMaxBodyBytes), s.config.MaxBodyBytes)
}

func TestServer_Swagger(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{APIKey: "secret"})

	w := do(t, h, "GET", "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "dbckit API", doc.Info.Title)
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/health", "/sniff", "/convert", "/hash", "/names/{id}"} {
		assert.Contains(t, doc.Paths, path)
	}

	w = do(t, h, "GET", "/swagger/index.html", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = do(t, h, "GET", "/swagger/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
