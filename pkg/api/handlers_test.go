package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurago/asagraph/pkg/neuro"
	"github.com/neurago/asagraph/pkg/registry"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	reg := registry.NewManager(zerolog.Nop())
	_, err := reg.Create("temperature", neuro.Numerical, 3)
	require.NoError(t, err)
	_, err = reg.Create("label", neuro.Categorical, 3)
	require.NoError(t, err)

	server := NewServer(reg, ServerConfig{Port: 8080, APIKey: testAPIKey}, nil)
	return NewRouter(server)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAPIKeyRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListSensors(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/sensors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, []interface{}{"label", "temperature"}, resp.Data)
}

func TestInsertAndSearch(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values", InsertRequest{Value: "21.5"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/values/21.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "21.5", data["id"])
	assert.Equal(t, "temperature", data["parent_id"])
	assert.Equal(t, 1.0, data["counter"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/values/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values", InsertRequest{Value: "warm"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/sensors/missing/values", InsertRequest{Value: "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivateDeactivate(t *testing.T) {
	router := newTestRouter(t)

	for i := 1; i <= 9; i++ {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values",
			InsertRequest{Value: strconv.Itoa(i)})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/activate",
		ActivateRequest{Value: "5", Signal: 1.0, PropagateHorizontal: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/values/6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.InDelta(t, 0.875, data["activation"].(float64), 1e-12)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/deactivate",
		DeactivateRequest{Value: "5", PropagateHorizontal: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/values/6", nil)
	resp = decodeResponse(t, rec)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["activation"])

	// Missing categorical values are not auto-inserted.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/sensors/label/activate",
		ActivateRequest{Value: "red", Signal: 1.0, PropagateHorizontal: true})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp = decodeResponse(t, rec)
	assert.Contains(t, resp.Error, "activating missing categorical sensory neuron")
}

func TestResetAndStats(t *testing.T) {
	router := newTestRouter(t)

	for i := 1; i <= 5; i++ {
		doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values",
			InsertRequest{Value: strconv.Itoa(i)})
	}
	doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/activate",
		ActivateRequest{Value: "3", Signal: 2.0})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/values/3", nil)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["activation"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	stats := resp.Data.(map[string]interface{})
	assert.Equal(t, 5.0, stats["unique"])
	assert.Equal(t, 5.0, stats["aggregated"])
	assert.Equal(t, 4.0, stats["range"])
}

func TestTreeDump(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values", InsertRequest{Value: "1"})
	doRequest(t, router, http.MethodPost, "/api/v1/sensors/temperature/values", InsertRequest{Value: "2"})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/sensors/temperature/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "||1:1|2:1|| \n", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}
