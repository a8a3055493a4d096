package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/solgrid/fieldmatch/core/metrics"
)

// PromSink records marketplace events in Prometheus metrics.
type PromSink struct {
	allocations *prometheus.CounterVec
	awards      *prometheus.CounterVec
	awardPrice  prometheus.Histogram
	escrowFlow  *prometheus.CounterVec
}

// NewPromSink registers marketplace metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_allocation_events_total",
		Help: "Total number of allocation decisions recorded",
	}, []string{"mode", "forced"})
	awards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_award_events_total",
		Help: "Total number of auction awards recorded",
	}, []string{"installer_id"})
	awardPrice := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_award_price",
		Help:    "Winning bid price distribution",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
	})
	escrowFlow := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_escrow_events_total",
		Help: "Total number of escrow ledger movements recorded",
	}, []string{"action"})

	for _, c := range []prometheus.Collector{allocations, awards, awardPrice, escrowFlow} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{allocations: allocations, awards: awards, awardPrice: awardPrice, escrowFlow: escrowFlow}, nil
}

// RecordAllocation increments the counter for each allocation decision.
func (s *PromSink) RecordAllocation(recs []coremetrics.AllocationRecord) error {
	for _, r := range recs {
		s.allocations.WithLabelValues(r.Mode, strconv.FormatBool(r.Forced)).Inc()
	}
	return nil
}

// RecordAward counts the award and observes the winning price.
func (s *PromSink) RecordAward(rec coremetrics.AwardRecord) error {
	s.awards.WithLabelValues(rec.InstallerID).Inc()
	s.awardPrice.Observe(rec.Price)
	return nil
}

// RecordEscrow counts the ledger movement by action.
func (s *PromSink) RecordEscrow(rec coremetrics.EscrowRecord) error {
	s.escrowFlow.WithLabelValues(rec.Action).Inc()
	return nil
}
