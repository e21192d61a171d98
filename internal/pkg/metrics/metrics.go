package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PunchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "punches_total",
		Help:      "Clock events recorded, by status.",
	}, []string{"status"})

	DuplicatePunchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "duplicate_punches_total",
		Help:      "Punches rejected for repeating the previous status.",
	}, []string{"status"})

	AbsencesAutoMarked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "absences_auto_marked_total",
		Help:      "Pending absences created by reconciliation.",
	})

	AbsenceReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "absence_reviews_total",
		Help:      "Absence review decisions, by outcome.",
	}, []string{"outcome"})

	AnomaliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "report_anomalies_total",
		Help:      "Day summaries flagged with an anomaly while building reports.",
	}, []string{"kind"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attendance",
		Name:      "report_duration_seconds",
		Help:      "Time spent building reports and KPI snapshots.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "scheduled_job_runs_total",
		Help:      "Scheduled job executions, by job and result.",
	}, []string{"job", "result"})

	StreamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Name:      "punch_stream_subscribers",
		Help:      "Open punch stream connections.",
	})
)
