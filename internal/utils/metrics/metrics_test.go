package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return New("test", prometheus.NewRegistry())
}

func TestNew(t *testing.T) {
	m := newTestMetrics()
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.HTTPRequestsInFlight)
	assert.NotNil(t, m.ReconcileEventsTotal)
	assert.NotNil(t, m.ReconcileUnhandledTotal)
	assert.NotNil(t, m.ReconcileFailuresTotal)
	assert.NotNil(t, m.GatewayRequestDuration)
	assert.NotNil(t, m.GatewayErrorsTotal)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.CacheMissesTotal)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("dup", prometheus.NewRegistry())
		New("dup", prometheus.NewRegistry())
	})
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	t.Run("records request with 2xx status", func(t *testing.T) {
		m.RecordHTTPRequest("POST", "/PaymentPlatiOnline/ITSN", 200, 100*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/PaymentPlatiOnline/ITSN", "2xx"))
		assert.Equal(t, float64(1), count)
	})

	t.Run("records redirect with 3xx status", func(t *testing.T) {
		m.RecordHTTPRequest("GET", "/PaymentPlatiOnline/Pay/:orderId", 302, 10*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/PaymentPlatiOnline/Pay/:orderId", "3xx"))
		assert.Equal(t, float64(1), count)
	})
}

func TestMetrics_Reconcile(t *testing.T) {
	m := newTestMetrics()

	m.RecordReconcile("itsn", "Settled")
	m.RecordReconcile("itsn", "Settled")
	m.RecordUnhandled("redirect")
	m.RecordReconcileFailure("notify")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReconcileEventsTotal.WithLabelValues("itsn", "Settled")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReconcileUnhandledTotal.WithLabelValues("redirect")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReconcileFailuresTotal.WithLabelValues("notify")))
}

func TestMetrics_RecordGatewayRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordGatewayRequest("query", "ok", 200*time.Millisecond)
	m.RecordGatewayRequest("query", "error", time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayErrorsTotal.WithLabelValues("query")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GatewayRequestDuration))
}

func TestMetrics_Cache(t *testing.T) {
	m := newTestMetrics()

	m.RecordCacheHit("settings")
	m.RecordCacheMiss("settings")
	m.RecordCacheMiss("settings")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("settings")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("settings")))
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{302, "3xx"},
		{422, "4xx"},
		{503, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusCodeToString(tt.code))
	}
}
