// Package audit provides the append-only trail of award and escrow
// events consumed by the external audit collaborator.
package audit

import (
	"context"
	"time"
)

// Action identifies the audited operation.
type Action string

const (
	ActionAllocated      Action = "allocated"
	ActionForcedAssign   Action = "forced_assignment"
	ActionAuctionOpened  Action = "auction_opened"
	ActionBidAwarded     Action = "bid_awarded"
	ActionEscrowCaptured Action = "escrow_captured"
	ActionEscrowReleased Action = "escrow_released"
	ActionEscrowRefunded Action = "escrow_refunded"
	ActionDisputeOpened  Action = "dispute_opened"
)

// Entry is one append-only audit record.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     string            `json:"actor"`
	Action    Action            `json:"action"`
	JobID     string            `json:"job_id,omitempty"`
	PaymentID string            `json:"payment_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// Query defines filters for retrieving entries.
type Query struct {
	Start  time.Time
	End    time.Time
	JobID  string
	Action Action
}

// Store persists audit entries and supports querying. Entries are never
// updated or deleted.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

func (q Query) matches(e Entry) bool {
	if !q.Start.IsZero() && e.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && e.Timestamp.After(q.End) {
		return false
	}
	if q.JobID != "" && e.JobID != q.JobID {
		return false
	}
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	return true
}
