// Package metrics defines and registers the custom Prometheus metrics for
// the quiz platform auth API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics use the default registry and are exposed through the
// echoprometheus handler mounted on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quiz_auth"

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successfully registered users.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (failure covers unknown email, wrong
//     password and deactivated accounts without distinguishing them)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh attempts.
// Label:
//   - result: "success" or "rejected"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectedTotal counts bearer tokens rejected by the auth middleware.
// Label:
//   - reason: "missing", "expired", "malformed", "signature"
var TokenRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejected_total",
		Help:      "Total number of bearer tokens rejected, by internal reason.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests dropped by the auth rate limiter.
// Label:
//   - route: the limited route group (e.g. "login", "register")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by route.",
	},
	[]string{"route"},
)

// CredentialOpDuration measures register/login/change-password latency as
// seen by the handler. Bcrypt hashing dominates these paths, so this is
// effectively the hashing budget.
// Label:
//   - op: "register", "login", "change_password", "reset_password"
var CredentialOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "credential_op_duration_seconds",
		Help:      "Duration of credential operations, dominated by password hashing.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)
