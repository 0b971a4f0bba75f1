package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Stock ledger metrics
	MovementsApplied  prometheus.Counter
	MovementsRejected *prometheus.CounterVec
	MovementDuration  prometheus.Histogram

	// Checkout metrics
	CheckoutsCompleted prometheus.Counter
	CheckoutsFailed    *prometheus.CounterVec
	CheckoutDuration   prometheus.Histogram

	// Order metrics
	OrdersPaid      *prometheus.CounterVec
	OrdersCancelled prometheus.Counter

	// Catalog sync metrics
	CloverSyncs       prometheus.Counter
	CloverItemsSynced prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsPending   prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Stock ledger metrics
		MovementsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_stock_movements_applied_total",
			Help: "Total number of stock movements applied",
		}),
		MovementsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_stock_movements_rejected_total",
				Help: "Total number of stock movements rejected by cause",
			},
			[]string{"cause"},
		),
		MovementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "truckparts_stock_movement_duration_seconds",
			Help:    "Duration of stock movement operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Checkout metrics
		CheckoutsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_checkouts_completed_total",
			Help: "Total number of completed checkouts",
		}),
		CheckoutsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_checkouts_failed_total",
				Help: "Total number of failed checkouts by cause",
			},
			[]string{"cause"},
		),
		CheckoutDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "truckparts_checkout_duration_seconds",
			Help:    "Duration of checkout operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Order metrics
		OrdersPaid: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_orders_paid_total",
				Help: "Total number of paid orders by payment method",
			},
			[]string{"method"},
		),
		OrdersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_orders_cancelled_total",
			Help: "Total number of cancelled orders",
		}),

		// Catalog sync metrics
		CloverSyncs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_clover_syncs_total",
			Help: "Total number of Clover catalog sync runs",
		}),
		CloverItemsSynced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_clover_items_synced_total",
			Help: "Total number of Clover items created or updated",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "truckparts_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "truckparts_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "truckparts_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truckparts_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truckparts_outbox_events_published_total",
			Help: "Total outbox events published",
		}),
		EventsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "truckparts_outbox_events_pending",
			Help: "Current number of unpublished outbox events",
		}),
	}
}
