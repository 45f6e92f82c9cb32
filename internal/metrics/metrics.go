// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "review_engagement"

// scoreBuckets spans the 0..100 score range in steps of 10.
var scoreBuckets = prometheus.LinearBuckets(10, 10, 10)

var (
	// Scores observes every score computed when an entity is saved.
	Scores = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "score",
		Help:      "Distribution of computed scores by entity and kind",
		Buckets:   scoreBuckets,
	}, []string{"entity", "kind"})

	// EntitiesSaved counts saved entities by kind and operation.
	EntitiesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_saved_total",
		Help:      "Entities persisted by entity and operation",
	}, []string{"entity", "op"})

	// ReportsAutoHidden counts content hidden because a report crossed the risk threshold.
	ReportsAutoHidden = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_auto_hidden_total",
		Help:      "Reported targets hidden automatically",
	}, []string{"target_type"})

	AnalyzerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyzer_failures_total",
		Help:      "Content analysis calls that failed and fell back to zero inputs",
	}, []string{"operation"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events published by type and result",
	}, []string{"event_type", "result"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Review listing cache lookups by result",
	}, []string{"result"})

	RescoreRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rescore_runs_total",
		Help:      "Report rescoring runs by result",
	}, []string{"result"})

	ReportsRescored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_rescored_total",
		Help:      "Open reports whose scores were refreshed",
	})

	RescoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rescore_duration_seconds",
		Help:      "Duration of report rescoring runs",
		Buckets:   prometheus.DefBuckets,
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// ObserveScores records named scores of one entity.
func ObserveScores(entity string, scores map[string]int) {
	for kind, v := range scores {
		Scores.WithLabelValues(entity, kind).Observe(float64(v))
	}
}
