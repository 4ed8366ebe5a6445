// Package metrics provides Prometheus metrics for the manning engine.
// Metrics register on a dedicated Registry served at /metrics and pushed
// by the CLI after a batch run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// Registry is the custom prometheus registry for the engine.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Run outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeError       = "error"
)

// =============================================================================
// RUN METRICS
// =============================================================================

// RunsTotal counts pipeline runs by outcome.
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "manning",
	Name:      "runs_total",
	Help:      "Pipeline runs by outcome",
}, []string{"outcome"})

// RunDurationSeconds tracks end-to-end pipeline time.
var RunDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "manning",
	Name:      "run_duration_seconds",
	Help:      "Time taken to compute one report",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
})

// WarningsTotal counts emitted warnings by code.
var WarningsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "manning",
	Name:      "warnings_total",
	Help:      "Warnings emitted by runs, by warning code",
}, []string{"code"})

// =============================================================================
// LAST REPORT
// =============================================================================

// PlantHeadcount holds the plant headcount of the last successful run.
var PlantHeadcount = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "manning",
	Name:      "plant_headcount",
	Help:      "Plant headcount per month from the last run, by kind (direct, indirect, total)",
}, []string{"period", "kind"})

// GroupsComputed holds the number of groups in the last successful run.
var GroupsComputed = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "manning",
	Name:      "groups_computed",
	Help:      "Resource groups in the last run",
})

// ObserveReport records a successful run.
func ObserveReport(r *manning.Report, elapsed time.Duration) {
	RunsTotal.WithLabelValues(OutcomeSuccess).Inc()
	RunDurationSeconds.Observe(elapsed.Seconds())
	for code, n := range manning.CountByCode(r.Warnings) {
		WarningsTotal.WithLabelValues(string(code)).Add(float64(n))
	}

	GroupsComputed.Set(float64(len(r.Groups)))
	PlantHeadcount.Reset()
	for _, p := range r.Plant {
		setIfDefined(string(p.Period), "direct", p.Direct)
		setIfDefined(string(p.Period), "indirect", p.Indirect)
		setIfDefined(string(p.Period), "total", p.Total)
	}
}

// ObserveFailure records a run that returned an error.
func ObserveFailure(err error, elapsed time.Duration) {
	outcome := OutcomeError
	if generic.IsClientError(err) {
		outcome = OutcomeClientError
	}
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDurationSeconds.Observe(elapsed.Seconds())
}

func setIfDefined(period, kind string, q generic.Quantity) {
	if v, ok := q.Float64(); ok {
		PlantHeadcount.WithLabelValues(period, kind).Set(v)
	}
}
