package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of one slurmsweep submission
type Metrics struct {
	// Submission metrics
	Submissions    *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
	LastSubmission *prometheus.GaugeVec

	// Parameter space metrics
	Parameters   prometheus.Gauge
	Combinations prometheus.Gauge

	// Error metrics
	Errors *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with registry
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slurmsweep_submissions_total",
				Help: "Total number of array job submissions",
			},
			[]string{"status"},
		),
		SubmitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "slurmsweep_submit_duration_seconds",
				Help:    "sbatch invocation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		LastSubmission: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "slurmsweep_last_submission_timestamp_seconds",
				Help: "Unix time of the last submission",
			},
			[]string{"status", "job_id"},
		),
		Parameters: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "slurmsweep_parameters",
				Help: "Number of parameters in the last submitted parameter space",
			},
		),
		Combinations: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "slurmsweep_combinations",
				Help: "Number of combinations in the last submitted parameter space",
			},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slurmsweep_errors_total",
				Help: "Total number of submission errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// Submission describes one submission attempt
type Submission struct {
	Status     string
	JobID      string
	Parameters int
	Count      int64
	Duration   time.Duration
	ErrorCode  string
	At         time.Time
}

// RecordSubmission updates every metric from s
func (m *Metrics) RecordSubmission(s Submission) {
	m.Submissions.WithLabelValues(s.Status).Inc()
	if s.Duration > 0 {
		m.SubmitDuration.Observe(s.Duration.Seconds())
	}
	at := s.At
	if at.IsZero() {
		at = time.Now()
	}
	m.LastSubmission.WithLabelValues(s.Status, s.JobID).Set(float64(at.Unix()))
	m.Parameters.Set(float64(s.Parameters))
	m.Combinations.Set(float64(s.Count))
	if s.ErrorCode != "" {
		m.Errors.WithLabelValues(s.ErrorCode).Inc()
	}
}
