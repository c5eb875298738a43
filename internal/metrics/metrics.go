package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_requests_total",
			Help: "Total number of API requests per route",
		},
		[]string{"route"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quotemanager_request_duration_seconds",
			Help:    "Request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_request_errors_total",
			Help: "Total number of error responses per route and status code",
		},
		[]string{"route", "code"},
	)

	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_estimates_total",
			Help: "Total number of price estimates computed per catalog and billing term",
		},
		[]string{"catalog", "term"},
	)

	UnresolvedReferencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_unresolved_references_total",
			Help: "Selected codes or ids missing from the catalog they were priced against",
		},
		[]string{"catalog"},
	)
)

// ObserveRequest records one API request.
func ObserveRequest(route string, code int, startedAt time.Time) {
	RequestsTotal.WithLabelValues(route).Inc()
	RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(startedAt).Seconds())
	if code >= 400 {
		RequestErrorsTotal.WithLabelValues(route, statusLabel(code)).Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code == 404:
		return "404"
	case code == 409:
		return "409"
	case code == 422:
		return "422"
	default:
		return "4xx"
	}
}

// ObserveEstimate records one estimation and any unresolved references it reported.
func ObserveEstimate(catalog, term string, unresolved int) {
	EstimatesTotal.WithLabelValues(catalog, term).Inc()
	if unresolved > 0 {
		UnresolvedReferencesTotal.WithLabelValues(catalog).Add(float64(unresolved))
	}
}

var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quotemanager_sessions_active",
			Help: "Number of estimation sessions currently held in memory",
		},
	)

	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_session_transitions_total",
			Help: "Session state transitions by target state",
		},
		[]string{"to"},
	)

	SessionReviewsBlockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotemanager_session_reviews_blocked_total",
			Help: "Review attempts rejected because the selection was incomplete",
		},
	)

	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotemanager_sessions_expired_total",
			Help: "Sessions evicted after exceeding the idle TTL",
		},
	)
)

var (
	DBPoolTotalConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_db_pool_total_conns",
			Help: "Total number of connections in the DB pool per driver",
		},
		[]string{"driver"},
	)

	DBPoolIdleConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_db_pool_idle_conns",
			Help: "Idle connections in the DB pool per driver",
		},
		[]string{"driver"},
	)

	DBPoolAcquiredConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_db_pool_acquired_conns",
			Help: "Currently acquired (in-use) connections per driver",
		},
		[]string{"driver"},
	)

	DBPoolAcquiresTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_db_pool_acquires_total",
			Help: "Cumulative number of connection acquires per driver",
		},
		[]string{"driver"},
	)
)

// UpdateDBPoolMetrics publishes a pool snapshot. acquires is the pool's
// cumulative counter, so it is exported as a gauge.
func UpdateDBPoolMetrics(driver string, total, idle, acquired float64, acquires int64) {
	DBPoolTotalConns.WithLabelValues(driver).Set(total)
	DBPoolIdleConns.WithLabelValues(driver).Set(idle)
	DBPoolAcquiredConns.WithLabelValues(driver).Set(acquired)
	DBPoolAcquiresTotal.WithLabelValues(driver).Set(float64(acquires))
}

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quotemanager_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotemanager_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
