// Package metrics holds the Prometheus collectors of the scheduling pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeClarification = "needs_clarification"
	OutcomeError         = "error"
)

var (
	ScheduleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_requests_total",
			Help: "Scheduling requests by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	Clarifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_clarifications_total",
			Help: "Requests that ended in a clarification, by reason",
		},
		[]string{"reason"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	ExtractorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_extractor_fallbacks_total",
			Help: "Model extractions answered by the rule-based fallback",
		},
	)

	ClarificationLogJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_clarification_log_jobs_total",
			Help: "Clarification log tasks processed by the worker, by result",
		},
		[]string{"result"},
	)
)
