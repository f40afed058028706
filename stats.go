package dbconn

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats carries the session metrics. A zero Stats records nothing, which is
// what constructors fall back to when callers pass nil.
type Stats struct {
	// Timings observes operation latency, labeled operation and addr.
	Timings *Timings
	// ErrorCounts counts failed operations by operation.
	ErrorCounts *Counts
	// WarningCounts counts statement warnings that were logged and
	// swallowed, so the suppression stays visible on a dashboard.
	WarningCounts *Counter
}

// NewStats builds Stats registered against reg. A nil reg registers on the
// prometheus default registerer; tests pass their own registry.
func NewStats(reg prometheus.Registerer) *Stats {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	timings := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dbconn",
			Name:      "operation_duration_seconds",
			Help:      "Latency of session operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "addr"},
	)
	errorCounts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dbconn",
			Name:      "errors_total",
			Help:      "Session operations that returned an error.",
		},
		[]string{"operation"},
	)
	warningCounts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dbconn",
			Name:      "statement_warnings_total",
			Help:      "Statement warnings promoted, logged and swallowed.",
		},
	)
	reg.MustRegister(timings, errorCounts, warningCounts)
	return &Stats{
		Timings:       &Timings{vec: timings},
		ErrorCounts:   &Counts{vec: errorCounts},
		WarningCounts: &Counter{counter: warningCounts},
	}
}

// Timings records operation latency into a histogram vector.
type Timings struct {
	vec *prometheus.HistogramVec
}

// Record observes the time elapsed since startTime under labels.
func (t *Timings) Record(labels []string, startTime time.Time) {
	if t == nil || t.vec == nil {
		return
	}
	t.vec.WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
}

// Counts is a labeled monotonic counter.
type Counts struct {
	vec *prometheus.CounterVec
}

// Add increments the counter under labels by value.
func (c *Counts) Add(labels []string, value int64) {
	if c == nil || c.vec == nil || value < 0 {
		return
	}
	c.vec.WithLabelValues(labels...).Add(float64(value))
}

// Counter is a single monotonic counter.
type Counter struct {
	counter prometheus.Counter
}

// Add increments the counter by value.
func (c *Counter) Add(value int64) {
	if c == nil || c.counter == nil || value < 0 {
		return
	}
	c.counter.Add(float64(value))
}
