package allocation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	allocationsTotal   *prometheus.CounterVec
	allocationFailures *prometheus.CounterVec
	allocationScore    prometheus.Histogram
	forcedAssignments  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Histogram, prometheus.Counter) {
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocations_total",
			Help: "Number of successful allocation decisions",
		},
		[]string{"mode"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_failures_total",
			Help: "Number of failed allocation attempts",
		},
		[]string{"reason"},
	)
	score := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_winner_score",
			Help:    "Composite score of the winning installer",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
	forced := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "allocation_forced_total",
			Help: "Number of forced assignments bypassing scoring",
		},
	)
	return total, failures, score, forced
}

func init() {
	allocationsTotal, allocationFailures, allocationScore, forcedAssignments = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers allocation metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(allocationsTotal, allocationFailures, allocationScore, forcedAssignments)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	allocationsTotal, allocationFailures, allocationScore, forcedAssignments = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
