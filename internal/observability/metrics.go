package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	summaryRecomputedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "energy_ledger",
		Subsystem: "recompute",
		Name:      "last_summary_recomputed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent daily summary upsert.",
	})
	summaryRecomputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "energy_ledger",
		Subsystem: "recompute",
		Name:      "summaries_recomputed_total",
		Help:      "Daily summaries written by recompute.",
	})
	mutationsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "energy_ledger",
		Subsystem: "ledger",
		Name:      "mutations_rejected_total",
		Help:      "Mutations rolled back, by reason.",
	}, []string{"reason"})
	plannedCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "energy_ledger",
		Subsystem: "planned",
		Name:      "events_completed_total",
		Help:      "Planned events marked done, by kind.",
	}, []string{"kind"})
	weekEventsMaterialized = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "energy_ledger",
		Subsystem: "planned",
		Name:      "week_materialized_events",
		Help:      "Planned events written per weekly plan materialization.",
		Buckets:   []float64{28, 30, 32, 35, 40, 50},
	})
)

func init() {
	prometheus.MustRegister(
		summaryRecomputedGauge,
		summaryRecomputedTotal,
		mutationsRejectedTotal,
		plannedCompletedTotal,
		weekEventsMaterialized,
	)
}

// RecordSummaryRecomputed updates the recompute watermark and counter.
func RecordSummaryRecomputed(ts time.Time) {
	summaryRecomputedTotal.Inc()
	if ts.IsZero() {
		return
	}
	summaryRecomputedGauge.Set(float64(ts.Unix()))
}

// RecordMutationRejected counts a rolled-back mutation.
func RecordMutationRejected(reason string) {
	mutationsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordPlannedCompleted counts a planned event transitioning to done.
func RecordPlannedCompleted(kind string) {
	plannedCompletedTotal.WithLabelValues(kind).Inc()
}

// RecordWeekMaterialized observes how many events a week plan produced.
func RecordWeekMaterialized(events int) {
	weekEventsMaterialized.Observe(float64(events))
}
