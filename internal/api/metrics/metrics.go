// Package metrics defines and registers the custom Prometheus metrics for
// the authentication API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the /metrics endpoint and HTTP-level metrics are wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultDenied  = "denied"
	ResultError   = "error"
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success", "denied" (duplicate/invalid), or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts password login attempts.
// Label:
//   - result: "success", "denied" (bad credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// MFAVerificationsTotal counts TOTP code verifications.
// Label:
//   - result: "success", "denied" (wrong code / not configured), or "error"
var MFAVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mfa_verifications_total",
		Help:      "Total number of 2FA code verifications, by result.",
	},
	[]string{"result"},
)

// MFAEnrollmentsTotal counts completed 2FA setup calls.
var MFAEnrollmentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mfa_enrollments_total",
		Help:      "Total number of successful 2FA setup operations.",
	},
)

// SessionsDestroyedTotal counts explicit logouts that destroyed a session.
var SessionsDestroyedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of sessions destroyed by explicit logout.",
	},
)
