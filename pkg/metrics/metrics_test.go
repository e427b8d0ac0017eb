package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementAPIRequests("user")
		m.IncrementAPIErrors("user")
		m.ObserveAPIRequestDuration("user", "200", 0.1)
		m.ObservePusherEvent("message_create", DiscardedReasonNone)
		m.ObservePusherConnected(true)
	})
}

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementAPIRequests("user")
	m.IncrementAPIRequests("user")
	m.IncrementAPIErrors("room_list")
	m.ObservePusherEvent("message_create", DiscardedReasonDecodeFailed)
	m.ObservePusherConnected(true)
	m.ObservePusherConnected(true)
	m.ObservePusherConnected(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequestsTotal.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiErrorsTotal.WithLabelValues("room_list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pusherEventsTotal.WithLabelValues("message_create", DiscardedReasonDecodeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pusherConnected))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.IncrementAPIRequests("service_info")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `asakusa_client_api_requests_total{endpoint="service_info"} 1`)
}
