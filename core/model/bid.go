package model

import "time"

// BidStatus tracks a bid through the auction lifecycle.
type BidStatus int

const (
	BidPending BidStatus = iota
	BidAwarded
	BidRejected
	BidWithdrawn
)

// String returns a human-readable representation of the bid status.
func (s BidStatus) String() string {
	switch s {
	case BidPending:
		return "PENDING"
	case BidAwarded:
		return "AWARDED"
	case BidRejected:
		return "REJECTED"
	case BidWithdrawn:
		return "WITHDRAWN"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s BidStatus) Terminal() bool {
	return s == BidAwarded || s == BidRejected || s == BidWithdrawn
}

// Bid is an installer's offer on an open job auction. The reliability
// snapshot is frozen at submission time so that later reputation changes
// do not reshuffle an auction in flight.
type Bid struct {
	ID                  string    `json:"id"`
	JobID               string    `json:"job_id"`
	InstallerID         string    `json:"installer_id"`
	Price               float64   `json:"price"`
	TimelineDays        int       `json:"timeline_days"`
	WarrantyMonths      int       `json:"warranty_months"`
	ReliabilitySnapshot float64   `json:"reliability_snapshot"`
	Score               float64   `json:"score"`
	Rank                int       `json:"rank,omitempty"`
	Status              BidStatus `json:"status"`
	SubmittedAt         time.Time `json:"submitted_at"`
}

// AuctionStatus tracks the per-job auction state machine.
type AuctionStatus int

const (
	AuctionClosed AuctionStatus = iota
	AuctionOpen
)

// String returns a human-readable representation of the auction status.
func (s AuctionStatus) String() string {
	switch s {
	case AuctionClosed:
		return "CLOSED"
	case AuctionOpen:
		return "OPEN"
	default:
		return "unknown"
	}
}

// Auction groups the bids submitted for one job. The deadline is a data
// attribute checked by the caller; the core runs no timers.
type Auction struct {
	JobID     string        `json:"job_id"`
	Status    AuctionStatus `json:"status"`
	Deadline  time.Time     `json:"deadline"`
	AwardedID string        `json:"awarded_bid_id,omitempty"`
	OpenedAt  time.Time     `json:"opened_at"`
	Bids      []Bid         `json:"bids"`
}

// BidByInstaller returns the index of the installer's non-withdrawn bid,
// or -1 when the installer has none.
func (a Auction) BidByInstaller(installerID string) int {
	for i, b := range a.Bids {
		if b.InstallerID == installerID && b.Status != BidWithdrawn {
			return i
		}
	}
	return -1
}
