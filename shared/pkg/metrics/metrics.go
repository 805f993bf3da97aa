package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paylink",
		Name:      "checkout_sessions_total",
		Help:      "Checkout sessions requested from the payment provider, by outcome.",
	}, []string{"outcome"})

	StatusLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paylink",
		Name:      "status_lookups_total",
		Help:      "Session status lookups, by outcome.",
	}, []string{"outcome"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paylink",
		Name:      "webhook_events_total",
		Help:      "Webhook events received, by event type and verification mode.",
	}, []string{"type", "verified"})

	SalesLogAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paylink",
		Name:      "sales_log_appends_total",
		Help:      "Sales log appends, by source and outcome.",
	}, []string{"source", "outcome"})

	Receipts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paylink",
		Name:      "receipts_total",
		Help:      "Receipt notifications, by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeInvalid    = "invalid"
	OutcomeSuppressed = "suppressed"
)
