package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// propagationTotal counts propagation walks by the reason they stopped.
	propagationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_schedule_propagation_total",
		Help: "Schedule propagations by stop reason",
	}, []string{"stop"})

	// propagationLevels tracks how many ancestors a walk loaded.
	propagationLevels = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cadence_schedule_propagation_levels",
		Help:    "Nodes loaded per schedule propagation",
		Buckets: []float64{0, 1, 2, 3},
	})

	propagationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cadence_schedule_propagation_duration_seconds",
		Help:    "Schedule propagation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
	})

	// verdictTotal counts classifier outcomes per dimension.
	verdictTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_schedule_verdict_total",
		Help: "Delta classifier verdicts by dimension and action",
	}, []string{"dimension", "action"})

	recalcNodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_schedule_recalc_nodes_total",
		Help: "Nodes visited by bulk recalculation by kind and result",
	}, []string{"kind", "result"})

	recalcBatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_schedule_recalc_batch_failures_total",
		Help: "Bulk recalculation batches rolled back by kind",
	}, []string{"kind"})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cadence_schedule_recalc_duration_seconds",
		Help:    "Organization-wide recalculation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	})
)
