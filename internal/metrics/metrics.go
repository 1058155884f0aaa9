// Package metrics provides Prometheus metrics for pipeline building and
// session runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelinesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "srtcast",
		Subsystem: "pipeline",
		Name:      "built_total",
		Help:      "Pipeline commands assembled, by session mode",
	}, []string{"mode"})

	rectValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "srtcast",
		Subsystem: "rectangle",
		Name:      "validations_total",
		Help:      "Rectangle string validations, by outcome",
	}, []string{"outcome"})

	sessionsRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "srtcast",
		Subsystem: "session",
		Name:      "runs_total",
		Help:      "Sessions started, by mode",
	}, []string{"mode"})

	sessionRestarts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "srtcast",
		Subsystem: "session",
		Name:      "restarts_total",
		Help:      "Child process restarts triggered by configuration changes",
	})

	displayQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "srtcast",
		Subsystem: "display",
		Name:      "queries_total",
		Help:      "Display enumerations, by outcome",
	}, []string{"outcome"})
)

// RecordPipelineBuilt increments the pipeline counter for a session mode.
func RecordPipelineBuilt(mode string) {
	pipelinesBuilt.WithLabelValues(mode).Inc()
}

// RecordRectValidation increments the rectangle validation counter.
// Outcome is "valid" or "invalid".
func RecordRectValidation(outcome string) {
	rectValidations.WithLabelValues(outcome).Inc()
}

// RecordSessionRun increments the session run counter for a mode.
func RecordSessionRun(mode string) {
	sessionsRun.WithLabelValues(mode).Inc()
}

// RecordSessionRestart increments the restart counter.
func RecordSessionRestart() {
	sessionRestarts.Inc()
}

// RecordDisplayQuery increments the display query counter.
// Outcome is "ok" or "error".
func RecordDisplayQuery(outcome string) {
	displayQueries.WithLabelValues(outcome).Inc()
}
