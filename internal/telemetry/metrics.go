package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts submission attempts by terminal outcome:
	// approved, under_review, rejected, failed.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_submissions_total",
		Help: "Claim submission attempts by terminal outcome",
	}, []string{"outcome"})

	// StageFailuresTotal counts terminal failures by the stage that failed:
	// validation, compress, upload, decision.
	StageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_stage_failures_total",
		Help: "Claim submission failures by pipeline stage",
	}, []string{"stage"})
)
