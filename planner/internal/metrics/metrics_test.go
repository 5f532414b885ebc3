package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCalculation(t *testing.T) {
	m := New()

	m.ObserveCalculation(TransportHTTP, time.Millisecond, "")
	m.ObserveCalculation(TransportHTTP, time.Millisecond, "invalid_stage")
	m.ObserveCalculation(TransportGRPC, time.Millisecond, "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(TransportHTTP, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(TransportHTTP, "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationErrors.WithLabelValues("invalid_stage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(TransportGRPC, "ok")))
}

func TestLiveClients(t *testing.T) {
	m := New()
	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveClients))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation(TransportCLI, time.Second, "invalid_goal")
		m.ClientConnected()
		m.ClientDisconnected()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCalculation(TransportWebSocket, time.Microsecond, "")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `vto_calculations_total{outcome="ok",transport="websocket"} 1`))
	assert.Contains(t, body, "vto_calculation_duration_seconds_bucket")
}
