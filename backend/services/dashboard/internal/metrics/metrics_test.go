package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsExposition(t *testing.T) {
	m := New("test")

	m.ObserveHTTP(http.MethodGet, "/api/map/stations", http.StatusOK, 20*time.Millisecond)
	m.ObserveUpstream(http.MethodGet, "/public/charging-spots/:id", http.StatusNotFound, time.Millisecond)
	m.ObserveUpstream(http.MethodGet, "/public/charging-stations/all", 0, time.Millisecond)
	m.WSConnected()
	m.WSConnected()
	m.WSDisconnected()
	m.WSPushed()
	m.ObservePayment("succeeded")

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/map/stations",status="200"} 1`)
	assert.Contains(t, body, `test_upstream_requests_total{endpoint="/public/charging-spots/:id",method="GET",status="404"} 1`)
	assert.Contains(t, body, `test_upstream_requests_total{endpoint="/public/charging-stations/all",method="GET",status="error"} 1`)
	assert.Contains(t, body, "test_ws_connections 1")
	assert.Contains(t, body, "test_ws_pushes_total 1")
	assert.Contains(t, body, `test_payments_total{status="succeeded"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNewUsesDefaultNamespace(t *testing.T) {
	m := New("")
	m.WSPushed()
	assert.Contains(t, scrape(t, m), "greendash_ws_pushes_total 1")
}
