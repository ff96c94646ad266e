package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RegistraMovimientos(t *testing.T) {
	m := New("wms")

	m.MovementApplied("BUNDLE", 1, 3, 20*time.Millisecond)
	m.MovementApplied("BUNDLE", 1, 3, 10*time.Millisecond)
	m.MovementRejected("OUTBOUND", "INSUFFICIENT_STOCK")
	m.ReconcileFinished(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.MovementsApplied.WithLabelValues("BUNDLE")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.MovementLines.WithLabelValues("effect")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MovementsRejected.WithLabelValues("OUTBOUND", "INSUFFICIENT_STOCK")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReconcileDiscrepancies))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("wms")
	m.RecordHTTPRequest("GET", "/api/inventory", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `wms_http_requests_total{method="GET",path="/api/inventory",status="200"} 1`), body)
}
