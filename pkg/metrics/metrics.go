package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TopUpTotal counts off-ramp top-up attempts by outcome.
	TopUpTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ramp_topup_total",
		Help: "Total off-ramp top-up operations by outcome",
	}, []string{"outcome"})

	// TopUpDuration observes end-to-end top-up latency.
	TopUpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ramp_topup_duration_seconds",
		Help:    "Off-ramp top-up duration by outcome",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"outcome"})

	// TopUpAmountEUR observes validated top-up amounts.
	TopUpAmountEUR = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ramp_topup_amount_eur",
		Help:    "Converted EUR amounts of accepted top-ups",
		Buckets: prometheus.ExponentialBuckets(1, 2.5, 10),
	})

	// OnRampRequestTotal counts on-ramp request creations by outcome.
	OnRampRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ramp_onramp_request_total",
		Help: "Total on-ramp execution requests by outcome",
	}, []string{"outcome"})

	// OnRampWatchDuration observes time from watch start to terminal status.
	OnRampWatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ramp_onramp_watch_duration_seconds",
		Help:    "On-ramp status watch duration by terminal status",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"status"})

	// AuditEventsDropped counts audit events discarded because the sink
	// queue was full.
	AuditEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ramp_audit_events_dropped_total",
		Help: "Audit events dropped due to a saturated sink queue",
	})

	// AuditEventsFailed counts audit deliveries that failed after retry.
	AuditEventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ramp_audit_events_failed_total",
		Help: "Audit events that could not be delivered",
	})

	// RemoteCallDuration observes latency of ramp API calls per endpoint.
	RemoteCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ramp_remote_call_duration_seconds",
		Help:    "Latency of remote ramp API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	// RampAvailability exposes the server-side ramp feature switches as
	// gauges (1 enabled, 0 disabled), refreshed periodically.
	RampAvailability = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ramp_availability",
		Help: "Server-side availability of ramp operations",
	}, []string{"operation"})
)
