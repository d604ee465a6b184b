package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// SlipMetrics 业务指标，使用独立的 registry
type SlipMetrics struct {
	registry *prometheus.Registry

	SourceRequests  *prometheus.CounterVec
	SourceDuration  *prometheus.HistogramVec
	SlipsCreated    *prometheus.CounterVec
	SlipTotalOdds   *prometheus.HistogramVec
	TxRetries       *prometheus.CounterVec
	CounterDeferred *prometheus.CounterVec
	LiveSubscribers prometheus.Gauge
	LiveResyncs     *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func NewSlipMetrics() *SlipMetrics {
	registry := prometheus.NewRegistry()

	m := &SlipMetrics{
		registry: registry,

		SourceRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slip_source_requests_total",
				Help: "Slip source adapter calls by outcome",
			},
			[]string{"source", "outcome"},
		),
		SourceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slip_source_duration_seconds",
				Help:    "Slip source adapter latency",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"source"},
		),
		SlipsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slip_created_total",
				Help: "Persisted slips by provenance",
			},
			[]string{"source"},
		),
		SlipTotalOdds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slip_total_odds",
				Help:    "Total odds of persisted slips",
				Buckets: []float64{1.5, 2, 3, 5, 10, 20, 50, 100, 1000},
			},
			[]string{"source"},
		),
		TxRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slip_tx_retries_total",
				Help: "Counter transactions retried after deadlock or lock timeout",
			},
			[]string{"op"},
		),
		CounterDeferred: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slip_counter_deferred_total",
				Help: "Counter updates left to the recount job",
			},
			[]string{"counter"},
		),
		LiveSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "live_subscribers",
				Help: "Open live subscription sockets",
			},
		),
		LiveResyncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "live_resyncs_total",
				Help: "Snapshot resyncs sent to live subscribers",
			},
			[]string{"reason"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SourceRequests,
		m.SourceDuration,
		m.SlipsCreated,
		m.SlipTotalOdds,
		m.TxRetries,
		m.CounterDeferred,
		m.LiveSubscribers,
		m.LiveResyncs,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler /metrics 输出
func (m *SlipMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSource 记录一次数据源调用
func (m *SlipMetrics) RecordSource(source, outcome string, elapsed time.Duration) {
	m.SourceRequests.WithLabelValues(source, outcome).Inc()
	m.SourceDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *SlipMetrics) RecordSlipCreated(source string, totalOdds decimal.Decimal) {
	m.SlipsCreated.WithLabelValues(source).Inc()
	m.SlipTotalOdds.WithLabelValues(source).Observe(DecimalToFloat64(totalOdds))
}

func (m *SlipMetrics) RecordTxRetry(op string) {
	m.TxRetries.WithLabelValues(op).Inc()
}

func (m *SlipMetrics) RecordCounterDeferred(counter string) {
	m.CounterDeferred.WithLabelValues(counter).Inc()
}

func (m *SlipMetrics) RecordResync(reason string) {
	m.LiveResyncs.WithLabelValues(reason).Inc()
}

// AddLiveSubscribers 实时连接数增减
func (m *SlipMetrics) AddLiveSubscribers(delta int) {
	m.LiveSubscribers.Add(float64(delta))
}

func (m *SlipMetrics) RecordHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, statusText(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusText(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// DecimalToFloat64 decimal 转 float64 供指标使用
func DecimalToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

var defaultMetrics *SlipMetrics
var once sync.Once

// Default 全局实例
func Default() *SlipMetrics {
	once.Do(func() {
		defaultMetrics = NewSlipMetrics()
	})
	return defaultMetrics
}
