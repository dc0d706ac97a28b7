// Package metrics collects Prometheus metrics for the inspection API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so several instances can coexist in one process.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	networks        prometheus.Gauge
	accounts        *prometheus.GaugeVec
}

// NewCollector creates a collector with Go runtime metrics registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deployconfig_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deployconfig_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method"},
		),
		networks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deployconfig_networks",
				Help: "Number of declared networks",
			},
		),
		accounts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "deployconfig_network_accounts",
				Help: "Number of accounts resolved for a network",
			},
			[]string{"network"},
		),
	}
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordNetwork publishes the account count of a network.
func (c *Collector) RecordNetwork(name string, accounts int) {
	c.accounts.WithLabelValues(name).Set(float64(accounts))
}

// SetNetworks publishes the number of declared networks.
func (c *Collector) SetNetworks(n int) {
	c.networks.Set(float64(n))
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
