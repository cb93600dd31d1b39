// Package metrics exposes prometheus counters for grading runs.
//
// Metrics:
//   - grader_questions_total: graded questions by kind and outcome
//   - grader_errors_total: internal grading errors by kind and error type
//   - grader_duration_seconds: time spent grading one question, by kind
//   - grader_cache_lookups_total: verdict cache lookups by result
//   - grader_cross_check_disagreements_total: goal verdicts the SAT check disputes
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grader"

// Outcome labels for grader_questions_total.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeInvalid   = "invalid"
)

// Metrics holds the grading collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	questionsTotal    *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	cacheLookups      *prometheus.CounterVec
	disagreementTotal *prometheus.CounterVec
}

// New creates and registers the grading metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		questionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "questions_total",
				Help:      "Total number of graded questions",
			},
			[]string{"kind", "outcome"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of internal grading errors",
			},
			[]string{"kind", "type"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "duration_seconds",
				Help:      "Time spent grading a single question",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind"},
		),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of verdict cache lookups",
			},
			[]string{"result"},
		),

		disagreementTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cross_check_disagreements_total",
				Help:      "Goal verdicts where the normal-form check and the SAT check differ",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.questionsTotal,
		m.errorsTotal,
		m.duration,
		m.cacheLookups,
		m.disagreementTotal,
	)

	return m
}

// RecordVerdict counts one graded question and its grading time.
func (m *Metrics) RecordVerdict(kind string, valid, correct bool, elapsed time.Duration) {
	m.questionsTotal.WithLabelValues(kind, outcome(valid, correct)).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordError counts an internal grading error.
func (m *Metrics) RecordError(kind, errType string) {
	m.errorsTotal.WithLabelValues(kind, errType).Inc()
}

// RecordCacheLookup counts a verdict cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordDisagreement counts a cross-check disagreement.
func (m *Metrics) RecordDisagreement(kind string) {
	m.disagreementTotal.WithLabelValues(kind).Inc()
}

// Gatherer exposes the registry, e.g. for an HTTP handler.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(valid, correct bool) string {
	switch {
	case !valid:
		return OutcomeInvalid
	case correct:
		return OutcomeCorrect
	default:
		return OutcomeIncorrect
	}
}
