package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsNamespace       = "asakusa_client"
	MetricsSubsystemAPI    = "api"
	MetricsSubsystemPusher = "pusher"

	DiscardedReasonNone         = ""
	DiscardedReasonDecodeFailed = "decode_failed"
	DiscardedReasonBadPayload   = "bad_payload"
)

// Metrics instruments the REST client and the message pusher. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiTime           *prometheus.HistogramVec
	apiRequestsTotal  *prometheus.CounterVec
	apiErrorsTotal    *prometheus.CounterVec
	pusherEventsTotal *prometheus.CounterVec
	pusherConnected   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystemAPI,
			Name:      "time",
			Help:      "Time to complete an API request, including decoding",
		},
		[]string{"endpoint", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	m.apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemAPI,
		Name:      "requests_total",
		Help:      "The total number of API requests sent.",
	}, []string{"endpoint"})
	m.registry.MustRegister(m.apiRequestsTotal)

	m.apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemAPI,
		Name:      "errors_total",
		Help:      "The total number of API requests that failed.",
	}, []string{"endpoint"})
	m.registry.MustRegister(m.apiErrorsTotal)

	m.pusherEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPusher,
		Name:      "events_total",
		Help:      "The total number of events received from the message pusher.",
	}, []string{"event", "discarded_reason"})
	m.registry.MustRegister(m.pusherEventsTotal)

	m.pusherConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPusher,
		Name:      "connected",
		Help:      "The number of message pusher connections currently open.",
	})
	m.registry.MustRegister(m.pusherConnected)

	return m
}

func (m *Metrics) ObserveAPIRequestDuration(endpoint, statusCode string, elapsed float64) {
	if m != nil {
		m.apiTime.With(prometheus.Labels{"endpoint": endpoint, "status_code": statusCode}).Observe(elapsed)
	}
}

func (m *Metrics) IncrementAPIRequests(endpoint string) {
	if m != nil {
		m.apiRequestsTotal.With(prometheus.Labels{"endpoint": endpoint}).Inc()
	}
}

func (m *Metrics) IncrementAPIErrors(endpoint string) {
	if m != nil {
		m.apiErrorsTotal.With(prometheus.Labels{"endpoint": endpoint}).Inc()
	}
}

func (m *Metrics) ObservePusherEvent(event, discardedReason string) {
	if m != nil {
		m.pusherEventsTotal.With(prometheus.Labels{"event": event, "discarded_reason": discardedReason}).Inc()
	}
}

func (m *Metrics) ObservePusherConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.pusherConnected.Inc()
	} else {
		m.pusherConnected.Dec()
	}
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
