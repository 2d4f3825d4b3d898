package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "cinefund"

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Business Metrics
	InvestmentsTotal          *prometheus.CounterVec
	InvestedAmountTotal       prometheus.Counter
	PayoutsTotal              *prometheus.CounterVec
	PayoutAmountTotal         *prometheus.CounterVec
	ReturnsProcessingDuration *prometheus.HistogramVec
	ReturnsProcessingErrors   *prometheus.CounterVec
	WalletCreditsTotal        *prometheus.CounterVec
	OutboxPublishedTotal      *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse  prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	DBConnectionWaits   prometheus.Gauge
	DBQueryDuration     *prometheus.HistogramVec
	DBQueriesTotal      *prometheus.CounterVec
	DBConnectionErrors  prometheus.Counter
	PayoutOutboxBacklog prometheus.Gauge

	// System Metrics
	ServiceUptime    prometheus.Gauge
	ServiceVersion   *prometheus.GaugeVec
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on reg. Binaries pass
// prometheus.DefaultRegisterer, tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   []float64{100, 1000, 10_000, 100_000, 1_000_000},
			},
			[]string{"method", "path", "status_code"},
		),

		InvestmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "investments_total",
				Help:      "Investment lifecycle events by resulting status",
			},
			[]string{"status"},
		),
		InvestedAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invested_amount_total",
				Help:      "Sum of confirmed investment amounts",
			},
		),
		PayoutsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payouts_total",
				Help:      "Number of payout transactions emitted",
			},
			[]string{"source"},
		),
		PayoutAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payout_amount_total",
				Help:      "Sum of payout amounts emitted",
			},
			[]string{"source"},
		),
		ReturnsProcessingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "returns_processing_duration_seconds",
				Help:      "Duration of a returns distribution run",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"source", "status"},
		),
		ReturnsProcessingErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "returns_processing_errors_total",
				Help:      "Failed returns distribution runs by error code",
			},
			[]string{"source", "code"},
		),
		WalletCreditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallet_credits_total",
				Help:      "Wallet credit attempts for payouts by outcome",
			},
			[]string{"status"},
		),
		OutboxPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_published_total",
				Help:      "Outbox messages published by queue and outcome",
			},
			[]string{"queue", "status"},
		),

		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		DBConnectionWaits: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_waits",
				Help:      "Cumulative number of connections waited for",
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_connection_errors_total",
				Help:      "Total number of database connection errors",
			},
		),
		PayoutOutboxBacklog: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "payout_outbox_backlog",
				Help:      "Payout transactions not yet published to the payout queue",
			},
		),

		ServiceUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_uptime_seconds",
				Help:      "Service uptime in seconds",
			},
		),
		ServiceVersion: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_version_info",
				Help:      "Service version information",
			},
			[]string{"service", "version"},
		),
		Goroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines",
				Help:      "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Memory usage in bytes",
			},
			[]string{"type"},
		),

		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validation operations in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) RecordInvestment(status string) {
	m.InvestmentsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordInvestedAmount(amount decimal.Decimal) {
	m.InvestedAmountTotal.Add(amount.InexactFloat64())
}

func (m *Metrics) RecordPayouts(source string, count int, amount decimal.Decimal) {
	m.PayoutsTotal.WithLabelValues(source).Add(float64(count))
	m.PayoutAmountTotal.WithLabelValues(source).Add(amount.InexactFloat64())
}

func (m *Metrics) RecordReturnsRun(source, status string, duration time.Duration) {
	m.ReturnsProcessingDuration.WithLabelValues(source, status).Observe(duration.Seconds())
}

func (m *Metrics) RecordReturnsError(source, code string) {
	m.ReturnsProcessingErrors.WithLabelValues(source, code).Inc()
}

func (m *Metrics) RecordWalletCredit(status string) {
	m.WalletCreditsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordOutboxPublish(queue, status string) {
	m.OutboxPublishedTotal.WithLabelValues(queue, status).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(result string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
}

func (m *Metrics) SetServiceVersion(service, version string) {
	m.ServiceVersion.WithLabelValues(service, version).Set(1)
}
