// Package monitor exposes Prometheus metrics for the HTTP surface and the
// store operations.
package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	OperationsTotal *prometheus.CounterVec
	UploadedBytes   prometheus.Counter
	Aliases         prometheus.Gauge
	EventClients    prometheus.GaugeFunc
}

// NewMetrics creates a collector set on its own registry. clients may be nil.
func NewMetrics(clients func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfs_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hfs_http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfs_store_operations_total",
				Help: "Store operations by kind and outcome",
			},
			[]string{"op", "result"},
		),
		UploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hfs_uploaded_bytes_total",
			Help: "Bytes received through uploads",
		}),
		Aliases: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hfs_aliases",
			Help: "Number of registered aliases",
		}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.OperationsTotal,
		m.UploadedBytes,
		m.Aliases,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if clients != nil {
		m.EventClients = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "hfs_event_clients",
			Help: "Connected websocket event clients",
		}, func() float64 { return float64(clients()) })
		reg.MustRegister(m.EventClients)
	}
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation counts one store operation. A nil receiver is a no-op.
func (m *Metrics) RecordOperation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
}

// RecordUpload adds n received bytes.
func (m *Metrics) RecordUpload(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.UploadedBytes.Add(float64(n))
}

// SetAliases updates the alias gauge.
func (m *Metrics) SetAliases(n int) {
	if m == nil {
		return
	}
	m.Aliases.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware creates a Gin middleware for metrics collection. Requests
// served by NoRoute share the "files" route label so paths do not explode
// label cardinality.
func Middleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "files"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
