// Package marketplace wires the allocation engine, auction lifecycle and
// escrow ledger into one orchestrator that fans decisions out to the
// event bus, metrics sinks, audit trail and installer notifications.
package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solgrid/fieldmatch/core/allocation"
	"github.com/solgrid/fieldmatch/core/audit"
	"github.com/solgrid/fieldmatch/core/auction"
	"github.com/solgrid/fieldmatch/core/escrow"
	"github.com/solgrid/fieldmatch/core/events"
	"github.com/solgrid/fieldmatch/core/logger"
	"github.com/solgrid/fieldmatch/core/metrics"
	"github.com/solgrid/fieldmatch/core/model"
	"github.com/solgrid/fieldmatch/core/notify"
	"github.com/solgrid/fieldmatch/internal/eventbus"
)

// Manager orchestrates the marketplace flows. Side effects (events,
// metrics, audit, notices) are best-effort: a failing sink is logged and
// never rolls back a state transition.
type Manager struct {
	directory *Directory
	engine    *allocation.Engine
	auctions  *auction.Lifecycle
	ledger    *escrow.Ledger
	notifier  notify.Notifier
	audit     audit.Store
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus
	logger    logger.Logger

	mu           sync.Mutex
	defaultSplit *escrow.SplitConfig
	gateway      SettlementGateway
}

// SetGateway configures the external settlement gateway. When set, money
// movements must succeed at the gateway before the ledger transitions.
func (m *Manager) SetGateway(g SettlementGateway) {
	m.mu.Lock()
	m.gateway = g
	m.mu.Unlock()
}

func (m *Manager) settlementGateway() SettlementGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateway
}

// SetDefaultSplit configures the milestone split used when CreatePayment
// is called without one.
func (m *Manager) SetDefaultSplit(cfg escrow.SplitConfig) {
	m.mu.Lock()
	m.defaultSplit = &cfg
	m.mu.Unlock()
}

// NewManager creates a manager. Directory, engine, auctions and ledger
// are required; notifier, audit store, metrics sink and bus may be nil.
func NewManager(dir *Directory, engine *allocation.Engine, auctions *auction.Lifecycle, ledger *escrow.Ledger, notifier notify.Notifier, auditStore audit.Store, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if dir == nil || engine == nil || auctions == nil || ledger == nil {
		return nil, fmt.Errorf("marketplace: nil parameter provided to NewManager")
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		directory: dir,
		engine:    engine,
		auctions:  auctions,
		ledger:    ledger,
		notifier:  notifier,
		audit:     auditStore,
		metrics:   sink,
		bus:       bus,
		logger:    log,
	}, nil
}

// Directory exposes the job and installer registry.
func (m *Manager) Directory() *Directory { return m.directory }

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	m.notifier.Close()
	if m.bus != nil {
		m.bus.Close()
	}
	if m.audit != nil {
		return m.audit.Close()
	}
	return nil
}

// Allocate runs the allocation engine over every registered installer and
// fans the decision out. Actor identifies who requested the allocation;
// it ends up in the audit trail, which matters for forced assignments.
func (m *Manager) Allocate(ctx context.Context, actor, jobID string, opts allocation.Options) (*allocation.Result, error) {
	job, err := m.directory.Job(jobID)
	if err != nil {
		return nil, err
	}
	res, err := m.engine.Allocate(job, m.directory.Installers(), opts)
	if err != nil {
		return nil, err
	}

	m.publish(events.AllocationEvent{
		JobID:       res.JobID,
		InstallerID: res.InstallerID,
		Score:       res.Score,
		Forced:      res.Forced,
		Mode:        res.Mode,
	})
	if err := m.metrics.RecordAllocation([]metrics.AllocationRecord{{
		JobID:       res.JobID,
		InstallerID: res.InstallerID,
		Score:       res.Score,
		Mode:        res.Mode,
		Forced:      res.Forced,
		Alternates:  len(res.Alternates),
		DecidedAt:   res.DecidedAt,
	}}); err != nil {
		m.logger.Errorf("allocation metrics error: %v", err)
	}
	action := audit.ActionAllocated
	if res.Forced {
		action = audit.ActionForcedAssign
	}
	m.record(ctx, audit.Entry{
		Actor:  actor,
		Action: action,
		JobID:  jobID,
		Details: map[string]string{
			"installer_id": res.InstallerID,
			"mode":         res.Mode,
			"score":        fmt.Sprintf("%.2f", res.Score),
			"reason":       res.Reason,
		},
	})
	m.notice(res.InstallerID, notify.Notice{
		Kind:    "allocation",
		JobID:   jobID,
		Message: res.Reason,
	})
	return res, nil
}

// OpenAuction opens bidding for the job.
func (m *Manager) OpenAuction(ctx context.Context, actor, jobID string, deadlineHours int) (model.Auction, error) {
	if _, err := m.directory.Job(jobID); err != nil {
		return model.Auction{}, err
	}
	a, err := m.auctions.OpenBidding(jobID, deadlineHours)
	if err != nil {
		return model.Auction{}, err
	}
	m.publish(events.AuctionEvent{JobID: jobID, Action: "opened", Deadline: a.Deadline})
	m.record(ctx, audit.Entry{
		Actor:   actor,
		Action:  audit.ActionAuctionOpened,
		JobID:   jobID,
		Details: map[string]string{"deadline": a.Deadline.Format(time.RFC3339)},
	})
	return a, nil
}

// SubmitBid registers a bid from the installer on the job's open auction.
func (m *Manager) SubmitBid(ctx context.Context, jobID, installerID string, price float64, timelineDays, warrantyMonths int) (model.Bid, error) {
	ins, err := m.directory.Installer(installerID)
	if err != nil {
		return model.Bid{}, err
	}
	bid, err := m.auctions.SubmitBid(jobID, ins, price, timelineDays, warrantyMonths)
	if err != nil {
		return model.Bid{}, err
	}
	m.publish(events.BidEvent{JobID: jobID, BidID: bid.ID, InstallerID: installerID, Action: "submitted", Price: price})
	return bid, nil
}

// WithdrawBid withdraws the installer's pending bid.
func (m *Manager) WithdrawBid(ctx context.Context, bidID, installerID string) error {
	if err := m.auctions.WithdrawBid(bidID, installerID); err != nil {
		return err
	}
	m.publish(events.BidEvent{BidID: bidID, InstallerID: installerID, Action: "withdrawn"})
	return nil
}

// RankBids scores and ranks the job's pending bids.
func (m *Manager) RankBids(ctx context.Context, jobID string) ([]model.Bid, error) {
	job, err := m.directory.Job(jobID)
	if err != nil {
		return nil, err
	}
	return m.auctions.RankBids(jobID, job)
}

// AwardBid awards the bid, closing the auction, and fans the award out.
func (m *Manager) AwardBid(ctx context.Context, actor, bidID string) (model.Bid, error) {
	winner, err := m.auctions.AwardBid(bidID)
	if err != nil {
		return model.Bid{}, err
	}
	a, gerr := m.auctions.Get(winner.JobID)
	bidCount := 0
	if gerr == nil {
		bidCount = len(a.Bids)
	}

	m.publish(events.AwardEvent{
		JobID:       winner.JobID,
		BidID:       winner.ID,
		InstallerID: winner.InstallerID,
		Price:       winner.Price,
		Score:       winner.Score,
	})
	if r, ok := m.metrics.(metrics.AwardRecorder); ok {
		if err := r.RecordAward(metrics.AwardRecord{
			JobID:       winner.JobID,
			BidID:       winner.ID,
			InstallerID: winner.InstallerID,
			Price:       winner.Price,
			Score:       winner.Score,
			BidCount:    bidCount,
			AwardedAt:   time.Now().UTC(),
		}); err != nil {
			m.logger.Errorf("award metrics error: %v", err)
		}
	}
	m.record(ctx, audit.Entry{
		Actor:  actor,
		Action: audit.ActionBidAwarded,
		JobID:  winner.JobID,
		Details: map[string]string{
			"bid_id":       winner.ID,
			"installer_id": winner.InstallerID,
			"price":        fmt.Sprintf("%.2f", winner.Price),
		},
	})
	m.notice(winner.InstallerID, notify.Notice{
		Kind:    "award",
		JobID:   winner.JobID,
		Message: fmt.Sprintf("bid %s awarded", winner.ID),
		Amount:  winner.Price,
	})
	return winner, nil
}

// CloseAuction closes bidding without an award.
func (m *Manager) CloseAuction(ctx context.Context, jobID string) error {
	if err := m.auctions.CloseBidding(jobID); err != nil {
		return err
	}
	m.publish(events.AuctionEvent{JobID: jobID, Action: "closed"})
	return nil
}

// Auction returns the auction for the job.
func (m *Manager) Auction(jobID string) (model.Auction, error) {
	return m.auctions.Get(jobID)
}

// CreatePayment opens a milestone-split payment for the job.
func (m *Manager) CreatePayment(ctx context.Context, jobID string, total float64, split *escrow.SplitConfig) (model.Payment, error) {
	if _, err := m.directory.Job(jobID); err != nil {
		return model.Payment{}, err
	}
	if split == nil {
		m.mu.Lock()
		split = m.defaultSplit
		m.mu.Unlock()
	}
	return m.ledger.CreatePayment(jobID, total, split)
}

// CapturePayment moves the payment into escrow. With a gateway
// configured, a declined capture fails the payment.
func (m *Manager) CapturePayment(ctx context.Context, paymentID string) (model.Payment, error) {
	if g := m.settlementGateway(); g != nil {
		pending, err := m.ledger.Get(paymentID)
		if err != nil {
			return model.Payment{}, err
		}
		if _, err := g.Capture(ctx, paymentID, pending.TotalAmount); err != nil {
			if _, ferr := m.ledger.FailPayment(paymentID, err.Error()); ferr != nil {
				m.logger.Errorf("fail payment after declined capture: %v", ferr)
			}
			return model.Payment{}, fmt.Errorf("gateway capture: %w", err)
		}
	}
	p, err := m.ledger.CaptureToEscrow(paymentID)
	if err != nil {
		return model.Payment{}, err
	}
	m.escrowFanout(ctx, p, "captured", p.TotalAmount, audit.ActionEscrowCaptured, "")
	return p, nil
}

// FailPayment marks a pending payment failed.
func (m *Manager) FailPayment(ctx context.Context, paymentID, reason string) (model.Payment, error) {
	p, err := m.ledger.FailPayment(paymentID, reason)
	if err != nil {
		return model.Payment{}, err
	}
	m.publish(events.EscrowEvent{PaymentID: p.ID, JobID: p.JobID, Action: "failed", Status: p.Status})
	return p, nil
}

// StartMilestone marks a milestone in progress.
func (m *Manager) StartMilestone(ctx context.Context, paymentID, milestoneID string) (model.Payment, error) {
	return m.ledger.StartMilestone(paymentID, milestoneID)
}

// CompleteMilestone marks milestone work done.
func (m *Manager) CompleteMilestone(ctx context.Context, paymentID, milestoneID string) (model.Payment, error) {
	return m.ledger.CompleteMilestone(paymentID, milestoneID)
}

// VerifyMilestone records the verification outcome for a completed milestone.
func (m *Manager) VerifyMilestone(ctx context.Context, paymentID, milestoneID string, passed bool) (model.Payment, error) {
	return m.ledger.VerifyMilestone(paymentID, milestoneID, passed)
}

// ReleaseMilestone pays out a verified milestone and notifies the awarded
// installer, when one exists.
func (m *Manager) ReleaseMilestone(ctx context.Context, paymentID, milestoneID string) (model.Payment, error) {
	before, err := m.ledger.Get(paymentID)
	if err != nil {
		return model.Payment{}, err
	}
	if g := m.settlementGateway(); g != nil {
		// Only move money for a release the ledger will accept.
		idx := before.MilestoneByID(milestoneID)
		if idx >= 0 && before.Milestones[idx].Status == model.MilestoneVerified {
			if _, err := g.Release(ctx, paymentID, before.Milestones[idx].Amount); err != nil {
				return model.Payment{}, fmt.Errorf("gateway release: %w", err)
			}
		}
	}
	p, err := m.ledger.ReleaseMilestone(paymentID, milestoneID)
	if err != nil {
		return model.Payment{}, err
	}
	released := before.EscrowAmount - p.EscrowAmount
	m.escrowFanout(ctx, p, "released", released, audit.ActionEscrowReleased, milestoneID)

	if a, gerr := m.auctions.Get(p.JobID); gerr == nil && a.AwardedID != "" {
		for _, b := range a.Bids {
			if b.ID == a.AwardedID {
				m.notice(b.InstallerID, notify.Notice{
					Kind:    "release",
					JobID:   p.JobID,
					Message: fmt.Sprintf("milestone %s released", milestoneID),
					Amount:  released,
				})
				break
			}
		}
	}
	return p, nil
}

// RefundPayment returns the remaining escrow balance to the payer.
func (m *Manager) RefundPayment(ctx context.Context, actor, paymentID, reason string) (model.Payment, error) {
	before, err := m.ledger.Get(paymentID)
	if err != nil {
		return model.Payment{}, err
	}
	if g := m.settlementGateway(); g != nil && before.EscrowAmount > 0 {
		if _, err := g.Refund(ctx, paymentID, before.EscrowAmount); err != nil {
			return model.Payment{}, fmt.Errorf("gateway refund: %w", err)
		}
	}
	p, err := m.ledger.RefundToPayer(paymentID, reason)
	if err != nil {
		return model.Payment{}, err
	}
	m.publish(events.EscrowEvent{PaymentID: p.ID, JobID: p.JobID, Action: "refunded", Amount: before.EscrowAmount, Status: p.Status})
	if r, ok := m.metrics.(metrics.EscrowRecorder); ok {
		if err := r.RecordEscrow(metrics.EscrowRecord{
			PaymentID: p.ID, JobID: p.JobID, Action: "refunded",
			Amount: before.EscrowAmount, Status: p.Status.String(), Time: time.Now().UTC(),
		}); err != nil {
			m.logger.Errorf("escrow metrics error: %v", err)
		}
	}
	m.record(ctx, audit.Entry{
		Actor:     actor,
		Action:    audit.ActionEscrowRefunded,
		JobID:     p.JobID,
		PaymentID: p.ID,
		Details:   map[string]string{"amount": fmt.Sprintf("%.2f", before.EscrowAmount), "reason": reason},
	})
	return p, nil
}

// DisputeMilestone flags a milestone as disputed.
func (m *Manager) DisputeMilestone(ctx context.Context, actor, paymentID, milestoneID, reason string) (model.Payment, error) {
	p, err := m.ledger.DisputeMilestone(paymentID, milestoneID, reason)
	if err != nil {
		return model.Payment{}, err
	}
	m.record(ctx, audit.Entry{
		Actor:     actor,
		Action:    audit.ActionDisputeOpened,
		JobID:     p.JobID,
		PaymentID: p.ID,
		Details:   map[string]string{"milestone_id": milestoneID, "reason": reason},
	})
	return p, nil
}

// Payment returns the payment by id.
func (m *Manager) Payment(paymentID string) (model.Payment, error) {
	return m.ledger.Get(paymentID)
}

// AuditTrail queries the audit store.
func (m *Manager) AuditTrail(ctx context.Context, q audit.Query) ([]audit.Entry, error) {
	if m.audit == nil {
		return nil, nil
	}
	return m.audit.Query(ctx, q)
}

func (m *Manager) escrowFanout(ctx context.Context, p model.Payment, action string, amount float64, a audit.Action, milestoneID string) {
	m.publish(events.EscrowEvent{PaymentID: p.ID, JobID: p.JobID, Action: action, Amount: amount, Status: p.Status})
	if r, ok := m.metrics.(metrics.EscrowRecorder); ok {
		if err := r.RecordEscrow(metrics.EscrowRecord{
			PaymentID: p.ID, JobID: p.JobID, Action: action,
			Amount: amount, Status: p.Status.String(), Time: time.Now().UTC(),
		}); err != nil {
			m.logger.Errorf("escrow metrics error: %v", err)
		}
	}
	details := map[string]string{"amount": fmt.Sprintf("%.2f", amount)}
	if milestoneID != "" {
		details["milestone_id"] = milestoneID
	}
	m.record(ctx, audit.Entry{
		Actor:     "system",
		Action:    a,
		JobID:     p.JobID,
		PaymentID: p.ID,
		Details:   details,
	})
}

func (m *Manager) publish(e eventbus.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

func (m *Manager) record(ctx context.Context, e audit.Entry) {
	if m.audit == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Actor == "" {
		e.Actor = "system"
	}
	if err := m.audit.Append(ctx, e); err != nil {
		m.logger.Errorf("audit append error: %v", err)
	}
}

func (m *Manager) notice(installerID string, n notify.Notice) {
	if err := m.notifier.NotifyInstaller(installerID, n); err != nil {
		m.logger.Warnf("notify installer %s: %v", installerID, err)
	}
}
