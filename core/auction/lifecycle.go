// Package auction implements the per-job competitive bidding process:
// bid collection with duplicate and withdrawal rules, composite bid
// ranking and the open/close/award lifecycle.
package auction

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/solgrid/fieldmatch/core/logger"
	"github.com/solgrid/fieldmatch/core/model"
)

// Lifecycle orchestrates the auction state machine on top of a Store.
type Lifecycle struct {
	store  Store
	scorer *Scorer
	log    logger.Logger
}

// NewLifecycle creates the auction orchestrator.
func NewLifecycle(store Store, scorer *Scorer, log logger.Logger) *Lifecycle {
	return &Lifecycle{store: store, scorer: scorer, log: log}
}

// OpenBidding creates an empty bid register for the job and marks it OPEN.
// The deadline is informational; expiry is enforced by the caller.
func (l *Lifecycle) OpenBidding(jobID string, deadlineHours int) (model.Auction, error) {
	now := time.Now().UTC()
	a := model.Auction{
		JobID:    jobID,
		Status:   model.AuctionOpen,
		Deadline: now.Add(time.Duration(deadlineHours) * time.Hour),
		OpenedAt: now,
	}
	if err := l.store.Create(a); err != nil {
		// A closed auction may be reopened; an open one may not.
		existing, gerr := l.store.Get(jobID)
		if gerr == nil && existing.Status == model.AuctionOpen {
			return model.Auction{}, ErrAuctionAlreadyOpen
		}
		if gerr == nil && existing.Status == model.AuctionClosed && existing.AwardedID == "" {
			uerr := l.store.Update(jobID, func(cur *model.Auction) error {
				if cur.Status == model.AuctionOpen {
					return ErrAuctionAlreadyOpen
				}
				if cur.AwardedID != "" {
					return ErrAuctionAlreadyAwarded
				}
				cur.Status = model.AuctionOpen
				cur.Deadline = a.Deadline
				cur.OpenedAt = now
				cur.Bids = nil
				return nil
			})
			if uerr != nil {
				return model.Auction{}, uerr
			}
			auctionsOpened.Inc()
			return l.store.Get(jobID)
		}
		if gerr == nil && existing.AwardedID != "" {
			return model.Auction{}, ErrAuctionAlreadyAwarded
		}
		return model.Auction{}, err
	}
	auctionsOpened.Inc()
	l.log.Infof("bidding opened for job %s until %s", jobID, a.Deadline.Format(time.RFC3339))
	return a, nil
}

// SubmitBid registers a new bid on an open auction. The installer's
// reliability index is snapshotted on the bid.
func (l *Lifecycle) SubmitBid(jobID string, installer model.Installer, price float64, timelineDays, warrantyMonths int) (model.Bid, error) {
	bid := model.Bid{
		ID:                  uuid.NewString(),
		JobID:               jobID,
		InstallerID:         installer.ID,
		Price:               price,
		TimelineDays:        timelineDays,
		WarrantyMonths:      warrantyMonths,
		ReliabilitySnapshot: installer.ReliabilityIndex,
		Status:              model.BidPending,
		SubmittedAt:         time.Now().UTC(),
	}
	err := l.store.Update(jobID, func(a *model.Auction) error {
		if a.Status != model.AuctionOpen {
			return ErrAuctionNotOpen
		}
		if a.BidByInstaller(installer.ID) >= 0 {
			return ErrDuplicateBid
		}
		a.Bids = append(a.Bids, bid)
		return nil
	})
	if err != nil {
		return model.Bid{}, err
	}
	bidsSubmitted.Inc()
	l.log.Debugw("bid submitted", map[string]any{
		"job_id":       jobID,
		"bid_id":       bid.ID,
		"installer_id": installer.ID,
		"price":        price,
	})
	return bid, nil
}

// WithdrawBid marks a PENDING bid WITHDRAWN. Only the submitting
// installer may withdraw.
func (l *Lifecycle) WithdrawBid(bidID, installerID string) error {
	jobID, err := l.store.JobForBid(bidID)
	if err != nil {
		return err
	}
	err = l.store.Update(jobID, func(a *model.Auction) error {
		for i := range a.Bids {
			if a.Bids[i].ID != bidID {
				continue
			}
			if a.Bids[i].InstallerID != installerID {
				return ErrNotBidOwner
			}
			if a.Bids[i].Status != model.BidPending {
				return ErrBidNotPending
			}
			a.Bids[i].Status = model.BidWithdrawn
			return nil
		}
		return ErrBidNotPending
	})
	if err != nil {
		return err
	}
	bidsWithdrawn.Inc()
	return nil
}

// RankBids scores all PENDING bids for the job, persists their scores and
// returns them sorted by score descending with ranks starting at 1.
func (l *Lifecycle) RankBids(jobID string, job model.Job) ([]model.Bid, error) {
	var ranked []model.Bid
	err := l.store.Update(jobID, func(a *model.Auction) error {
		var pending []int
		for i := range a.Bids {
			if a.Bids[i].Status != model.BidPending {
				continue
			}
			a.Bids[i].Score = l.scorer.Score(a.Bids[i], job)
			pending = append(pending, i)
		}
		sort.SliceStable(pending, func(x, y int) bool {
			bi, bj := a.Bids[pending[x]], a.Bids[pending[y]]
			if bi.Score != bj.Score {
				return bi.Score > bj.Score
			}
			return bi.SubmittedAt.Before(bj.SubmittedAt)
		})
		ranked = make([]model.Bid, 0, len(pending))
		for rank, idx := range pending {
			a.Bids[idx].Rank = rank + 1
			ranked = append(ranked, a.Bids[idx])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// AwardBid marks the bid AWARDED, rejects every other non-withdrawn bid
// on the job and closes the auction. A job can only be awarded once.
func (l *Lifecycle) AwardBid(bidID string) (model.Bid, error) {
	jobID, err := l.store.JobForBid(bidID)
	if err != nil {
		return model.Bid{}, err
	}
	var winner model.Bid
	err = l.store.Update(jobID, func(a *model.Auction) error {
		if a.AwardedID != "" {
			return ErrAuctionAlreadyAwarded
		}
		idx := -1
		for i := range a.Bids {
			if a.Bids[i].ID == bidID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrBidNotPending
		}
		if a.Bids[idx].Status != model.BidPending {
			return ErrBidNotPending
		}
		a.Bids[idx].Status = model.BidAwarded
		for i := range a.Bids {
			if i != idx && a.Bids[i].Status == model.BidPending {
				a.Bids[i].Status = model.BidRejected
			}
		}
		a.AwardedID = bidID
		a.Status = model.AuctionClosed
		winner = a.Bids[idx]
		return nil
	})
	if err != nil {
		return model.Bid{}, err
	}
	awardsTotal.Inc()
	l.log.Infof("job %s awarded to installer %s (bid %s)", jobID, winner.InstallerID, bidID)
	return winner, nil
}

// CloseBidding closes an open auction without an award, leaving the bids
// PENDING for a later reopening or manual resolution.
func (l *Lifecycle) CloseBidding(jobID string) error {
	return l.store.Update(jobID, func(a *model.Auction) error {
		if a.Status != model.AuctionOpen {
			return ErrAuctionNotOpen
		}
		a.Status = model.AuctionClosed
		return nil
	})
}

// Get returns a copy of the auction for the job.
func (l *Lifecycle) Get(jobID string) (model.Auction, error) {
	return l.store.Get(jobID)
}
