// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event labels.
const (
	EventLoginSuccess  = "login_success"
	EventLoginFailure  = "login_failure"
	EventRegister      = "register"
	EventTokenRejected = "token_rejected"
)

// Recorder is the metrics surface the middleware and service layers use.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordAuthEvent(event string)
	RecordHistoryDeleted(count int64)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	authEvents     *prometheus.CounterVec
	historyDeleted prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipgeo_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ipgeo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipgeo_auth_events_total",
			Help: "Authentication outcomes by event",
		}, []string{"event"}),
		historyDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipgeo_history_deleted_total",
			Help: "History entries removed through bulk delete",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.authEvents,
		c.historyDeleted,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordAuthEvent(event string) {
	c.authEvents.WithLabelValues(event).Inc()
}

func (c *Collector) RecordHistoryDeleted(count int64) {
	c.historyDeleted.Add(float64(count))
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where metrics are not wired.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuthEvent(string) {}
func (Nop) RecordHistoryDeleted(int64) {}
