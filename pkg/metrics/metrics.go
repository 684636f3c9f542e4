package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors. Each instance owns
// its registry so tests can build several routers in one process.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UsersCreated    prometheus.Counter
	DocumentsSaved  *prometheus.CounterVec
	FeedbackCreated prometheus.Counter
	EventsDropped   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doctrack_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doctrack_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_users_created_total",
			Help: "Users registered",
		}),
		DocumentsSaved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doctrack_documents_saved_total",
			Help: "Document writes by action",
		}, []string{"action"}),
		FeedbackCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_feedback_created_total",
			Help: "Feedback entries submitted",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_events_dropped_total",
			Help: "Change feed events dropped because the hub was busy",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
