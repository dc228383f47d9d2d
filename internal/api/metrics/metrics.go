// Package metrics defines and registers all custom Prometheus metrics for the
// ERP dashboard service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Fetch metrics ─────────────────────────────────────────────────────────────

// FetchAttemptsTotal counts individual fetch attempts.
// Labels:
//   - role: the role the snapshot was fetched for
//   - outcome: "success" or "failure"
var FetchAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_attempts_total",
		Help:      "Total number of snapshot fetch attempts, including retries.",
	},
	[]string{"role", "outcome"},
)

// FetchErrorsTotal counts fetch cycles that surfaced a final error.
// Label:
//   - kind: network, auth, permission, data or unknown
var FetchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Total number of fetch cycles that ended in a classified error.",
	},
	[]string{"kind"},
)

// FetchDuration measures a full fetch cycle, backoff waits included.
var FetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of a fetch cycle from dispatch to final result.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"role"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts single-slot cache reads.
// Label:
//   - result: "hit", "miss", "role_mismatch" or "expired"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of snapshot cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Sync metrics ──────────────────────────────────────────────────────────────

// RefreshesTotal counts fetches dispatched by the sync controller.
// Label:
//   - trigger: "initial", "manual", "scheduled" or "role_change"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of fetches dispatched, by trigger.",
	},
	[]string{"trigger"},
)

// SupersededFetchesTotal counts completions dropped because a newer fetch was dispatched.
var SupersededFetchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "superseded_fetches_total",
		Help:      "Total number of fetch results discarded because a newer fetch was issued.",
	},
)

// ActiveSessions tracks the number of mounted dashboard sessions.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of dashboard sessions with a live sync controller.",
	},
)
