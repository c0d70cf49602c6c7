package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the console.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	PollTicksTotal         *prometheus.CounterVec
	LifecycleActionsTotal  *prometheus.CounterVec
	ExportsTotal           *prometheus.CounterVec
	StaleResponsesTotal    prometheus.Counter
	TasksByStatus          *prometheus.GaugeVec
}

// New registers the console metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Total number of HTTP requests served by the console.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the console.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		BackendRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "console_backend_requests_total",
			Help: "Total number of calls to the crawler backend.",
		}, []string{"endpoint", "outcome"}), // outcome: success, request_error, transport_error
		BackendRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Duration of calls to the crawler backend.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		PollTicksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "console_poll_ticks_total",
			Help: "Total number of dashboard refreshes.",
		}, []string{"outcome"}),
		LifecycleActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "console_lifecycle_actions_total",
			Help: "Total number of task lifecycle commands issued.",
		}, []string{"action", "outcome"}),
		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "console_exports_total",
			Help: "Total number of export downloads requested.",
		}, []string{"scope", "outcome"}),
		StaleResponsesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "console_stale_responses_total",
			Help: "Data browser responses discarded because a newer query was issued.",
		}),
		TasksByStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "console_tasks_by_status",
			Help: "Crawl tasks per status as last reported by the backend.",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveBackend(endpoint, outcome string, seconds float64) {
	m.BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.BackendRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) IncPollTick(outcome string) {
	m.PollTicksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncLifecycleAction(action, outcome string) {
	m.LifecycleActionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncExport(scope, outcome string) {
	m.ExportsTotal.WithLabelValues(scope, outcome).Inc()
}

func (m *Metrics) IncStaleResponse() {
	m.StaleResponsesTotal.Inc()
}

func (m *Metrics) SetTasksByStatus(status string, count float64) {
	m.TasksByStatus.WithLabelValues(status).Set(count)
}
