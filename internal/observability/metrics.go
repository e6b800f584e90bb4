// Package observability exposes prometheus metrics for plan generation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	plansGeneratedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dayplan",
		Subsystem: "api",
		Name:      "plans_generated_total",
		Help:      "Number of plans successfully generated.",
	})

	activitiesDiscardedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayplan",
		Subsystem: "api",
		Name:      "activities_discarded_total",
		Help:      "Number of candidate activities dropped during validation, by reason.",
	}, []string{"reason"})

	generationFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dayplan",
		Subsystem: "api",
		Name:      "generation_failures_total",
		Help:      "Number of failed plan generations, split into generation and upstream failures.",
	}, []string{"kind"})

	lastPlanGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dayplan",
		Subsystem: "api",
		Name:      "last_plan_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully generated plan.",
	})
)

func init() {
	prometheus.MustRegister(plansGeneratedCounter, activitiesDiscardedCounter, generationFailureCounter, lastPlanGauge)
}

// RecordPlanGenerated updates the success counter and the freshness gauge.
func RecordPlanGenerated(ts time.Time) {
	plansGeneratedCounter.Inc()
	if !ts.IsZero() {
		lastPlanGauge.Set(float64(ts.Unix()))
	}
}

// RecordActivityDiscarded counts a candidate dropped during validation.
func RecordActivityDiscarded(reason string) {
	activitiesDiscardedCounter.WithLabelValues(reason).Inc()
}

// RecordGenerationFailure counts a failed generation attempt.
func RecordGenerationFailure(kind string) {
	generationFailureCounter.WithLabelValues(kind).Inc()
}
