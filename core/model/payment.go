package model

import "time"

// PaymentStatus tracks a payment through the escrow lifecycle.
type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentEscrow
	PaymentPartialReleased
	PaymentReleased
	PaymentRefunded
	PaymentFailed
)

// String returns a human-readable representation of the payment status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "PENDING"
	case PaymentEscrow:
		return "ESCROW"
	case PaymentPartialReleased:
		return "PARTIAL_RELEASED"
	case PaymentReleased:
		return "RELEASED"
	case PaymentRefunded:
		return "REFUNDED"
	case PaymentFailed:
		return "FAILED"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentReleased || s == PaymentRefunded || s == PaymentFailed
}

// MilestoneStatus tracks a milestone through completion, verification and
// fund release.
type MilestoneStatus int

const (
	MilestonePending MilestoneStatus = iota
	MilestoneInProgress
	MilestoneCompleted
	MilestoneVerified
	MilestoneReleased
	MilestoneDisputed
)

// String returns a human-readable representation of the milestone status.
func (s MilestoneStatus) String() string {
	switch s {
	case MilestonePending:
		return "PENDING"
	case MilestoneInProgress:
		return "IN_PROGRESS"
	case MilestoneCompleted:
		return "COMPLETED"
	case MilestoneVerified:
		return "VERIFIED"
	case MilestoneReleased:
		return "RELEASED"
	case MilestoneDisputed:
		return "DISPUTED"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s MilestoneStatus) Terminal() bool {
	return s == MilestoneReleased || s == MilestoneDisputed
}

// Milestone is one stage of a payment. Sequence orders milestones for
// reporting; fund release is not constrained by it.
type Milestone struct {
	ID       string          `json:"id"`
	Sequence int             `json:"sequence"`
	Name     string          `json:"name"`
	Amount   float64         `json:"amount"`
	Status   MilestoneStatus `json:"status"`
}

// Payment is the escrow ledger entry for one job. The invariant
// EscrowAmount+ReleasedAmount <= TotalAmount holds at all times, and the
// milestone amounts sum to TotalAmount at creation.
type Payment struct {
	ID             string        `json:"id"`
	JobID          string        `json:"job_id"`
	TotalAmount    float64       `json:"total_amount"`
	EscrowAmount   float64       `json:"escrow_amount"`
	ReleasedAmount float64       `json:"released_amount"`
	Status         PaymentStatus `json:"status"`
	// SettlementRef is the external payment-gateway reference recorded
	// when funds are captured.
	SettlementRef string      `json:"settlement_ref,omitempty"`
	Milestones    []Milestone `json:"milestones"`
	CreatedAt     time.Time   `json:"created_at"`
}

// MilestoneByID returns the index of the milestone with the given id, or
// -1 when the payment has none.
func (p Payment) MilestoneByID(id string) int {
	for i, m := range p.Milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}
