package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/health-facility-map/internal/adapter/httpadapter"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, gatherer prometheus.Gatherer) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, gatherer, slog.Default())
}

func serve(srv http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(errors.New("map not saved yet"), nil), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "map not saved yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMetricsEndpoint_CustomGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "facility_map_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	rec := serve(newTestServer(nil, reg), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "facility_map_test_total 1")
	assert.NotContains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(nil, nil)

	assert.Equal(t, http.StatusNotFound, serve(srv, http.MethodGet, "/nope").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(srv, http.MethodPost, "/healthz").Code)
}
