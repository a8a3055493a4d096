package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	paymentsCreated prometheus.Counter
	escrowCaptured  prometheus.Counter
	escrowReleased  prometheus.Counter
	escrowRefunded  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Counter) {
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escrow_payments_created_total",
		Help: "Number of payments created",
	})
	captured := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escrow_captured_amount_total",
		Help: "Total amount captured into escrow",
	})
	released := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escrow_released_amount_total",
		Help: "Total amount released from escrow to installers",
	})
	refunded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escrow_refunded_amount_total",
		Help: "Total amount refunded from escrow to payers",
	})
	return created, captured, released, refunded
}

func init() {
	paymentsCreated, escrowCaptured, escrowReleased, escrowRefunded = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers escrow metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(paymentsCreated, escrowCaptured, escrowReleased, escrowRefunded)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	paymentsCreated, escrowCaptured, escrowReleased, escrowRefunded = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
