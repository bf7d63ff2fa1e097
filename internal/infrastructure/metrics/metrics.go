package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsCreated *prometheus.CounterVec
	MovementsVoided  prometheus.Counter
	MovementAmount   prometheus.Histogram
	MovementErrors   *prometheus.CounterVec
	VersionConflicts prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountBalance    *prometheus.GaugeVec
	AccountOperations *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	RedisErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsPending   prometheus.Gauge

	// Audit metrics
	AuditEntriesCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MovementsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_movements_created_total",
				Help: "Total number of movements created by kind and method",
			},
			[]string{"kind", "method"},
		),
		MovementsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_movements_voided_total",
			Help: "Total number of movements voided",
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts",
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_account_balance",
				Help: "Current account balance",
			},
			[]string{"account_id", "currency"},
		),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors by type",
			},
			[]string{"error_type"},
		),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_cache_hits_total",
			Help: "Total balance cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_cache_misses_total",
			Help: "Total balance cache misses",
		}),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Total rate limited requests by path",
			},
			[]string{"path"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_events_published_total",
			Help: "Total outbox events published",
		}),
		EventsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_events_pending",
			Help: "Outbox events waiting for publication",
		}),

		AuditEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_audit_entries_created_total",
				Help: "Total audit entries created by action",
			},
			[]string{"action"},
		),
	}
}
