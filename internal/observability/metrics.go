// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Catalog metrics
	TokensLaunched    prometheus.Counter
	TokensTracked     prometheus.Gauge
	LeaderboardBuilds prometheus.Counter
	LeaderboardSize   prometheus.Gauge
	RewardPool        prometheus.Gauge

	// Refresh metrics
	RefreshRunsTotal   *prometheus.CounterVec
	RefreshDuration    prometheus.Histogram
	RefreshSkipped     prometheus.Counter
	TokensRefreshed    *prometheus.CounterVec
	UpstreamLatency    *prometheus.HistogramVec
	UpstreamErrors     *prometheus.CounterVec
	SnapshotsStored    prometheus.Counter
	EventsPublished    *prometheus.CounterVec
	WSClientsConnected prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBPoolConns     *prometheus.GaugeVec

	// Health metrics
	LastSuccessfulRefresh prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "pokelaunch"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		TokensLaunched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "tokens_launched_total",
			Help:      "Total number of tokens launched through the API",
		}),
		TokensTracked: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "tokens_tracked",
			Help:      "Number of token records in the last snapshot",
		}),
		LeaderboardBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "builds_total",
			Help:      "Total number of creator leaderboard builds",
		}),
		LeaderboardSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "creators",
			Help:      "Number of ranked creators in the last build",
		}),
		RewardPool: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "reward_pool_sol",
			Help:      "Sum of creator rewards in the last build",
		}),

		RefreshRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of market data refresh runs by status",
		}, []string{"status"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Market data refresh duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		RefreshSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "skipped_total",
			Help:      "Refresh ticks skipped because a run was in progress",
		}),
		TokensRefreshed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "tokens_total",
			Help:      "Token market updates applied by source",
		}, []string{"source"}),
		UpstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Upstream API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),
		UpstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Upstream API call failures",
		}, []string{"api"}),
		SnapshotsStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "snapshots_stored_total",
			Help:      "Market snapshots written to the history store",
		}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "events_total",
			Help:      "Leaderboard events published by status",
		}, []string{"status"}),
		WSClientsConnected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket clients",
		}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		DBPoolConns: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "pool_connections",
			Help:      "Pooled database connections by state",
		}, []string{"database", "state"}),

		LastSuccessfulRefresh: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_refresh_timestamp",
			Help:      "Unix timestamp of last successful market data refresh",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route string, code int, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, statusLabel(code)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordTokenLaunched increments the launched tokens counter.
func RecordTokenLaunched() {
	DefaultMetrics.TokensLaunched.Inc()
}

// RecordLeaderboardBuild records one creator leaderboard build.
func RecordLeaderboardBuild(tokens, creators int, rewardPool float64) {
	DefaultMetrics.LeaderboardBuilds.Inc()
	DefaultMetrics.TokensTracked.Set(float64(tokens))
	DefaultMetrics.LeaderboardSize.Set(float64(creators))
	DefaultMetrics.RewardPool.Set(rewardPool)
}

// RecordRefreshRun records a market data refresh run.
func RecordRefreshRun(status string, durationSeconds float64, finishedUnix int64) {
	DefaultMetrics.RefreshRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RefreshDuration.Observe(durationSeconds)
	if status == "success" {
		DefaultMetrics.LastSuccessfulRefresh.Set(float64(finishedUnix))
	}
}

// RecordRefreshSkipped counts a tick dropped by the overlap guard.
func RecordRefreshSkipped() {
	DefaultMetrics.RefreshSkipped.Inc()
}

// RecordTokensRefreshed counts market updates applied from source.
func RecordTokensRefreshed(source string, n int) {
	DefaultMetrics.TokensRefreshed.WithLabelValues(source).Add(float64(n))
}

// RecordUpstreamCall records upstream API latency and failures.
func RecordUpstreamCall(api string, seconds float64, err error) {
	DefaultMetrics.UpstreamLatency.WithLabelValues(api).Observe(seconds)
	if err != nil {
		DefaultMetrics.UpstreamErrors.WithLabelValues(api).Inc()
	}
}

// RecordSnapshotsStored counts snapshots written.
func RecordSnapshotsStored(n int) {
	DefaultMetrics.SnapshotsStored.Add(float64(n))
}

// RecordEventPublished counts a leaderboard event publish attempt.
func RecordEventPublished(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.EventsPublished.WithLabelValues(status).Inc()
}

// SetWSClients updates the connected websocket clients gauge.
func SetWSClients(n int) {
	DefaultMetrics.WSClientsConnected.Set(float64(n))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// SetDBPoolConns records how many pooled connections are acquired and idle.
func SetDBPoolConns(database string, acquired, idle int32) {
	DefaultMetrics.DBPoolConns.WithLabelValues(database, "acquired").Set(float64(acquired))
	DefaultMetrics.DBPoolConns.WithLabelValues(database, "idle").Set(float64(idle))
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
