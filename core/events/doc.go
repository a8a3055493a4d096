// Package events defines the marketplace events emitted on the event bus.
//
// Available event types:
//   - AllocationEvent: allocation decision for a job
//   - AuctionEvent: auction opened or closed
//   - BidEvent: bid submitted or withdrawn
//   - AwardEvent: auction closed by an award
//   - EscrowEvent: payment captured, released, refunded or failed
package events
