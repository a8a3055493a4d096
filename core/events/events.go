package events

import (
	"time"

	"github.com/solgrid/fieldmatch/core/model"
)

// AllocationEvent is published when an allocation decision is made.
type AllocationEvent struct {
	JobID       string
	InstallerID string
	Score       float64
	Forced      bool
	Mode        string
}

// AuctionEvent is emitted when a job auction opens or closes. Action can
// be "opened" or "closed".
type AuctionEvent struct {
	JobID    string
	Action   string
	Deadline time.Time
}

// BidEvent is published for each bid submission or withdrawal. Action can
// be "submitted" or "withdrawn".
type BidEvent struct {
	JobID       string
	BidID       string
	InstallerID string
	Action      string
	Price       float64
}

// AwardEvent is published when an auction is closed by an award.
type AwardEvent struct {
	JobID       string
	BidID       string
	InstallerID string
	Price       float64
	Score       float64
}

// EscrowEvent mirrors a payment ledger transition. Action can be
// "captured", "released", "refunded" or "failed".
type EscrowEvent struct {
	PaymentID string
	JobID     string
	Action    string
	Amount    float64
	Status    model.PaymentStatus
}
