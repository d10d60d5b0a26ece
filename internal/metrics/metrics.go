package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bananaguava_snapshots_total",
		Help: "Issue snapshot refresh attempts.",
	}, []string{"status"})

	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bananaguava_snapshot_duration_seconds",
		Help:    "Time to fetch, normalize, and store one full snapshot.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	PromptsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bananaguava_prompts_loaded",
		Help: "Prompt records in the current snapshot.",
	}, []string{"state"})

	VocabularyKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bananaguava_vocabulary_keys",
		Help: "Keys in the merged vocabulary table.",
	})

	GrowthReportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bananaguava_growth_reports_total",
		Help: "Vocabulary growth entries written to a sink.",
	})

	GrowthReportErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bananaguava_growth_report_errors_total",
		Help: "Vocabulary growth sink failures.",
	})

	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bananaguava_submissions_total",
		Help: "Submission proxy requests.",
	}, []string{"action", "status"})
)
