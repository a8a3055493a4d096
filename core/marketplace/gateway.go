package marketplace

import (
	"context"
	"time"
)

// SettlementReceipt is the gateway's confirmation of one money movement.
type SettlementReceipt struct {
	Ref         string    `json:"ref"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SettlementGateway is the external payment processor the escrow ledger
// mirrors. The ledger tracks amounts; the gateway moves the money.
type SettlementGateway interface {
	Capture(ctx context.Context, paymentID string, amount float64) (SettlementReceipt, error)
	Release(ctx context.Context, paymentID string, amount float64) (SettlementReceipt, error)
	Refund(ctx context.Context, paymentID string, amount float64) (SettlementReceipt, error)
}
