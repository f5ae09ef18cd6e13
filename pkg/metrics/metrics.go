// Package metrics exposes Prometheus collectors for HTTP traffic and wizard activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	sessions      prometheus.Counter
	probes        prometheus.Counter
	configsStored prometheus.Counter
	notifierSends *prometheus.CounterVec
	previews      *prometheus.CounterVec
}

// New registers the collectors on a private registry so tests can build as many as they like.
func New(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		sessions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Total wizard sessions created",
			},
		),
		probes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_submitted_total",
				Help:      "Total probes built from the web form",
			},
		),
		configsStored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "configs_stored_total",
				Help:      "Total finished configurations persisted",
			},
		),
		notifierSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_tests_total",
				Help:      "Test notifications sent by channel and result",
			},
			[]string{"channel", "result"},
		),
		previews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probe_previews_total",
				Help:      "Probe previews by outcome",
			},
			[]string{"outcome"},
		),
	}

	r.registry.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.sessions,
		r.probes,
		r.configsStored,
		r.notifierSends,
		r.previews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Observe implements the HTTP metrics middleware recorder.
func (r *Recorder) Observe(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (r *Recorder) IncSession() {
	r.sessions.Inc()
}

func (r *Recorder) IncProbeSubmitted() {
	r.probes.Inc()
}

func (r *Recorder) IncConfigStored() {
	r.configsStored.Inc()
}

func (r *Recorder) IncNotificationTest(channel string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	r.notifierSends.WithLabelValues(channel, result).Inc()
}

func (r *Recorder) IncPreview(outcome string) {
	r.previews.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
