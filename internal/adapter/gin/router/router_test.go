package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dataset-registry-service/internal/adapter/gin/handler"
	"dataset-registry-service/internal/adapter/repository/memory"
	"dataset-registry-service/internal/usecase/registry"
)

func newRouter(t *testing.T) *gin.Engine {
	log := zaptest.NewLogger(t)
	uc := registry.New(memory.NewStore(log), log)
	return SetupRouter(handler.NewRegistryHandler(uc, 1<<20, log), nil, "dataset-registry-service", log)
}

func do(r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, r http.Handler, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return do(r, http.MethodPost, path, body, mw.FormDataContentType())
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"dataset-registry-service"}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dataset_registry_http_requests_total")

	w = do(r, http.MethodGet, OpenAPIPath, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])

	w = do(r, http.MethodGet, "/docs/index.html", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RegistryFlow(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/", nil, "")
	assert.JSONEq(t, `{"message":"Welcome to the Simple User Registration"}`, w.Body.String())

	w = do(r, http.MethodPost, "/users/register", bytes.NewBufferString(`{"username":"csvuser"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/users/register", bytes.NewBufferString(`{"username":"csvuser"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already exists")

	w = upload(t, r, "/users/csvuser/data/report", "data.csv", "ID,Name\n1,Alice\n2,Bob")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rows_processed":2`)

	w = upload(t, r, "/users/csvuser/data/report", "notes.txt", "x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, r, "/users/ghost/data/report", "notes.txt", "x")
	assert.Equal(t, http.StatusNotFound, w.Code, "user check precedes extension check")

	w = do(r, http.MethodGet, "/users/all", nil, "")
	assert.JSONEq(t, `{"registered_users":["csvuser"]}`, w.Body.String())

	w = do(r, http.MethodGet, "/users/csvuser/datasets", nil, "")
	assert.JSONEq(t, `{"username":"csvuser","available_datasets":["report"]}`, w.Body.String())

	w = do(r, http.MethodGet, "/users/csvuser/data/report", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[{"ID":"1","Name":"Alice"},{"ID":"2","Name":"Bob"}]`, strings.TrimSpace(w.Body.String()))

	w = do(r, http.MethodGet, "/users/csvuser/data/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/users/nosuchuser/data/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
