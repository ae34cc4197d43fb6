// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voiceleopard_dispatch_attempts_total",
		Help: "Outbound call dispatch attempts, including retries.",
	})

	DispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceleopard_dispatch_failures_total",
		Help: "Dispatch attempts that ended in an error.",
	}, []string{"retryable"})

	Completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceleopard_call_completions_total",
		Help: "Finalized calls by completion source (webhook or watchdog).",
	}, []string{"source"})

	WatchdogTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voiceleopard_watchdog_timeouts_total",
		Help: "Calls finalized by the watchdog because no webhook arrived.",
	})

	ActiveCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voiceleopard_active_calls",
		Help: "Calls currently in flight across all campaigns.",
	})
)
