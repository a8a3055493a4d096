package auction

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	auctionsOpened prometheus.Counter
	bidsSubmitted  prometheus.Counter
	bidsWithdrawn  prometheus.Counter
	awardsTotal    prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Counter) {
	opened := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auctions_opened_total",
		Help: "Number of job auctions opened for bidding",
	})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bids_submitted_total",
		Help: "Number of bids accepted into auctions",
	})
	withdrawn := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bids_withdrawn_total",
		Help: "Number of bids withdrawn by installers",
	})
	awards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_awards_total",
		Help: "Number of auctions closed by an award",
	})
	return opened, submitted, withdrawn, awards
}

func init() {
	auctionsOpened, bidsSubmitted, bidsWithdrawn, awardsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers auction metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(auctionsOpened, bidsSubmitted, bidsWithdrawn, awardsTotal)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	auctionsOpened, bidsSubmitted, bidsWithdrawn, awardsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
