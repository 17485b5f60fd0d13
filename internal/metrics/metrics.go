package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database Metrics
var (
	// DBQueryDuration tracks statement duration by verb and table, e.g. "select stocks"
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBConnectionsCurrent tracks current pool connections by state
	DBConnectionsCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_connections_current",
			Help: "Current database connections by state (active/idle/total)",
		},
		[]string{"state"},
	)

	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// Store Access Metrics
var (
	// StoreOperationsTotal counts coordinator calls by mode (read/write/transaction)
	// and outcome (success, not_configured, validation, operation)
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total persistence operations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Persistence operation duration in seconds, including connection acquisition and commit",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)
)

// Health Metrics
var (
	// TableAccessible is 1 when the last probe reached the table, 0 otherwise
	TableAccessible = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "table_accessible",
			Help: "1 if the last health probe could read the table, 0 otherwise",
		},
		[]string{"table"},
	)

	HealthChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_checks_total",
			Help: "Total health checks by check and result",
		},
		[]string{"check", "result"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP Error Metrics
// Note: http_errors_total{type} is provided by internal/platform/errors
