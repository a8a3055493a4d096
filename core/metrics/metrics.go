package metrics

import (
	"time"
)

// AllocationRecord represents one allocation decision to be recorded.
type AllocationRecord struct {
	JobID       string
	InstallerID string
	Score       float64
	Mode        string
	Forced      bool
	Alternates  int
	DecidedAt   time.Time
}

// MetricsSink records allocation decisions for observability purposes.
type MetricsSink interface {
	RecordAllocation(records []AllocationRecord) error
}

// AwardRecord captures an auction award.
type AwardRecord struct {
	JobID       string
	BidID       string
	InstallerID string
	Price       float64
	Score       float64
	BidCount    int
	AwardedAt   time.Time
}

// AwardRecorder records auction awards.
type AwardRecorder interface {
	RecordAward(rec AwardRecord) error
}

// EscrowRecord captures one escrow ledger movement.
type EscrowRecord struct {
	PaymentID string
	JobID     string
	Action    string
	Amount    float64
	Status    string
	Time      time.Time
}

// EscrowRecorder records escrow ledger movements.
type EscrowRecorder interface {
	RecordEscrow(rec EscrowRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordAllocation([]AllocationRecord) error { return nil }
func (NopSink) RecordAward(AwardRecord) error             { return nil }
func (NopSink) RecordEscrow(EscrowRecord) error           { return nil }
