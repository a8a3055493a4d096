package auction

import (
	"errors"
	"testing"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestLifecycle(t *testing.T) *Lifecycle {
	t.Helper()
	s, err := NewScorer(ScorerConfig{})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	return NewLifecycle(NewMemoryStore(), s, nopLogger{})
}

func installer(id string, reliability float64) model.Installer {
	return model.Installer{ID: id, Name: "Installer " + id, ReliabilityIndex: reliability, CapacityAvailable: 3, CapacityMax: 5, CostFactor: 1}
}

func TestSubmitBid_RequiresOpenAuction(t *testing.T) {
	l := newTestLifecycle(t)
	if _, err := l.SubmitBid("job-x", installer("i1", 80), 1000, 10, 12); err == nil {
		t.Fatal("expected error submitting to unknown auction")
	}

	if _, err := l.OpenBidding("job-x", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	if err := l.CloseBidding("job-x"); err != nil {
		t.Fatalf("close bidding: %v", err)
	}
	if _, err := l.SubmitBid("job-x", installer("i1", 80), 1000, 10, 12); !errors.Is(err, ErrAuctionNotOpen) {
		t.Fatalf("expected ErrAuctionNotOpen, got %v", err)
	}
}

func TestSubmitBid_DuplicateRejected(t *testing.T) {
	l := newTestLifecycle(t)
	if _, err := l.OpenBidding("job-1", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	if _, err := l.SubmitBid("job-1", installer("i1", 80), 1000, 10, 12); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if _, err := l.SubmitBid("job-1", installer("i1", 80), 900, 10, 12); !errors.Is(err, ErrDuplicateBid) {
		t.Fatalf("expected ErrDuplicateBid, got %v", err)
	}
}

func TestWithdrawBid_AllowsRebidding(t *testing.T) {
	l := newTestLifecycle(t)
	if _, err := l.OpenBidding("job-1", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	b, err := l.SubmitBid("job-1", installer("i1", 80), 1000, 10, 12)
	if err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := l.WithdrawBid(b.ID, "i2"); !errors.Is(err, ErrNotBidOwner) {
		t.Fatalf("expected ErrNotBidOwner, got %v", err)
	}
	if err := l.WithdrawBid(b.ID, "i1"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := l.WithdrawBid(b.ID, "i1"); !errors.Is(err, ErrBidNotPending) {
		t.Fatalf("expected ErrBidNotPending on double withdraw, got %v", err)
	}
	if _, err := l.SubmitBid("job-1", installer("i1", 80), 900, 10, 12); err != nil {
		t.Fatalf("re-bid after withdrawal: %v", err)
	}
}

func TestRankBids_PriceOrdering(t *testing.T) {
	l := newTestLifecycle(t)
	job := model.Job{ID: "101", EstimatedCost: 96000}
	if _, err := l.OpenBidding("101", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	// Identical timeline, warranty and reliability; only price differs.
	for i, p := range []float64{90000, 96000, 102000} {
		ins := installer([]string{"a", "b", "c"}[i], 80)
		if _, err := l.SubmitBid("101", ins, p, 20, 12); err != nil {
			t.Fatalf("bid %d: %v", i, err)
		}
	}
	ranked, err := l.RankBids("101", job)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked bids, got %d", len(ranked))
	}
	if ranked[0].Price != 90000 || ranked[0].Rank != 1 {
		t.Fatalf("expected 90000 bid ranked first, got %+v", ranked[0])
	}
	if ranked[2].Price != 102000 || ranked[2].Rank != 3 {
		t.Fatalf("expected 102000 bid ranked last, got %+v", ranked[2])
	}
}

func TestRankBids_SkipsWithdrawn(t *testing.T) {
	l := newTestLifecycle(t)
	job := model.Job{ID: "101", EstimatedCost: 96000}
	if _, err := l.OpenBidding("101", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	b1, _ := l.SubmitBid("101", installer("a", 80), 80000, 20, 12)
	if _, err := l.SubmitBid("101", installer("b", 80), 95000, 20, 12); err != nil {
		t.Fatalf("bid b: %v", err)
	}
	if err := l.WithdrawBid(b1.ID, "a"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	ranked, err := l.RankBids("101", job)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 1 || ranked[0].InstallerID != "b" {
		t.Fatalf("withdrawn bid must not be ranked: %+v", ranked)
	}
}

func TestAwardBid_RejectsOthersAndCloses(t *testing.T) {
	l := newTestLifecycle(t)
	if _, err := l.OpenBidding("J", 48); err != nil {
		t.Fatalf("open bidding: %v", err)
	}
	b1, _ := l.SubmitBid("J", installer("a", 80), 90000, 20, 12)
	b2, _ := l.SubmitBid("J", installer("b", 80), 95000, 20, 12)
	b3, _ := l.SubmitBid("J", installer("c", 80), 99000, 20, 12)
	if err := l.WithdrawBid(b3.ID, "c"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	winner, err := l.AwardBid(b1.ID)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if winner.Status != model.BidAwarded {
		t.Fatalf("winner status = %s", winner.Status)
	}

	a, err := l.Get("J")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Status != model.AuctionClosed {
		t.Fatalf("auction should be CLOSED after award, got %s", a.Status)
	}
	var awarded, rejected, withdrawn int
	for _, b := range a.Bids {
		switch b.Status {
		case model.BidAwarded:
			awarded++
		case model.BidRejected:
			rejected++
		case model.BidWithdrawn:
			withdrawn++
		}
	}
	if awarded != 1 || rejected != 1 || withdrawn != 1 {
		t.Fatalf("unexpected statuses after award: awarded=%d rejected=%d withdrawn=%d", awarded, rejected, withdrawn)
	}

	// Second award attempt on the same job via the other bid.
	if _, err := l.AwardBid(b2.ID); !errors.Is(err, ErrAuctionAlreadyAwarded) {
		t.Fatalf("expected ErrAuctionAlreadyAwarded, got %v", err)
	}
	var iserr *faults.InvalidStateError
	if _, err := l.AwardBid(b2.ID); !errors.As(err, &iserr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestAwardBid_UnknownBid(t *testing.T) {
	l := newTestLifecycle(t)
	var nferr *faults.NotFoundError
	if _, err := l.AwardBid("nope"); !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestOpenBidding_Reopen(t *testing.T) {
	l := newTestLifecycle(t)
	if _, err := l.OpenBidding("J", 24); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := l.OpenBidding("J", 24); !errors.Is(err, ErrAuctionAlreadyOpen) {
		t.Fatalf("expected ErrAuctionAlreadyOpen, got %v", err)
	}
	if err := l.CloseBidding("J"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := l.OpenBidding("J", 24); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	b, _ := l.SubmitBid("J", installer("a", 80), 1000, 10, 12)
	if _, err := l.AwardBid(b.ID); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := l.OpenBidding("J", 24); !errors.Is(err, ErrAuctionAlreadyAwarded) {
		t.Fatalf("awarded job must not reopen, got %v", err)
	}
}
