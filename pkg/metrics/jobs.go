package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics tracks the housekeeping jobs that run inside the cart service.
type JobMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	affected *prometheus.CounterVec
}

func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_job_runs_total",
		Help: "Housekeeping job executions by outcome (success, failure).",
	}, []string{"job", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_job_duration_seconds",
		Help:    "Duration of housekeeping jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	affected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_job_affected_total",
		Help: "Carts removed by housekeeping jobs.",
	}, []string{"job"})
	reg.MustRegister(runs, duration, affected)
	return &JobMetrics{
		runs:     runs,
		duration: duration,
		affected: affected,
	}
}

// ObserveRun records one execution of the named job.
func (j *JobMetrics) ObserveRun(job string, duration time.Duration, err error) {
	if j == nil || j.runs == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	j.runs.WithLabelValues(normalizeLabel(job), result).Inc()
	j.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// AddAffected counts carts purged or evicted by the named job.
func (j *JobMetrics) AddAffected(job string, n int64) {
	if j == nil || j.affected == nil || n <= 0 {
		return
	}
	j.affected.WithLabelValues(normalizeLabel(job)).Add(float64(n))
}
