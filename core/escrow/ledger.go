// Package escrow implements the milestone-gated payment settlement state
// machine. The ledger tracks amounts only; the actual money movement is
// the payment gateway collaborator's job.
package escrow

import (
	"time"

	"github.com/google/uuid"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/logger"
	"github.com/solgrid/fieldmatch/core/model"
)

// Ledger runs the payment and milestone state machines on top of a Store.
type Ledger struct {
	store Store
	log   logger.Logger
}

// NewLedger creates an escrow ledger.
func NewLedger(store Store, log logger.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

// CreatePayment splits the total across an ordered milestone list. A nil
// split uses the platform default 20/40/30/10. The milestone amounts sum
// to the total exactly; an invalid split is rejected here, never fixed up.
func (l *Ledger) CreatePayment(jobID string, total float64, split *SplitConfig) (model.Payment, error) {
	if total <= 0 {
		return model.Payment{}, faults.Validation("total_amount", "must be positive, got %v", total)
	}
	cfg := DefaultSplit()
	if split != nil {
		cfg = *split
	}
	if err := cfg.Validate(); err != nil {
		return model.Payment{}, err
	}

	amounts := cfg.amounts(total)
	p := model.Payment{
		ID:          uuid.NewString(),
		JobID:       jobID,
		TotalAmount: total,
		Status:      model.PaymentPending,
		CreatedAt:   time.Now().UTC(),
	}
	for i, spec := range cfg.Milestones {
		p.Milestones = append(p.Milestones, model.Milestone{
			ID:       uuid.NewString(),
			Sequence: i + 1,
			Name:     spec.Name,
			Amount:   amounts[i],
			Status:   model.MilestonePending,
		})
	}
	if err := l.store.Create(p); err != nil {
		return model.Payment{}, err
	}
	paymentsCreated.Inc()
	l.log.Infof("payment %s created for job %s, total %.2f over %d milestones", p.ID, jobID, total, len(p.Milestones))
	return p, nil
}

// CaptureToEscrow moves a PENDING payment into ESCROW, holding the full
// total, and records the external settlement reference.
func (l *Ledger) CaptureToEscrow(paymentID string) (model.Payment, error) {
	var out model.Payment
	err := l.store.Update(paymentID, func(p *model.Payment) error {
		if p.Status != model.PaymentPending {
			return faults.InvalidState("capture to escrow", p.Status.String())
		}
		p.Status = model.PaymentEscrow
		p.EscrowAmount = p.TotalAmount
		p.SettlementRef = uuid.NewString()
		out = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	escrowCaptured.Add(out.TotalAmount)
	l.log.Infof("payment %s captured to escrow (ref %s)", paymentID, out.SettlementRef)
	return out, nil
}

// FailPayment marks a PENDING payment FAILED, typically after the gateway
// declined the capture.
func (l *Ledger) FailPayment(paymentID, reason string) (model.Payment, error) {
	var out model.Payment
	err := l.store.Update(paymentID, func(p *model.Payment) error {
		if p.Status != model.PaymentPending {
			return faults.InvalidState("fail payment", p.Status.String())
		}
		p.Status = model.PaymentFailed
		out = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	l.log.Warnf("payment %s failed: %s", paymentID, reason)
	return out, nil
}

// StartMilestone moves a PENDING milestone to IN_PROGRESS.
func (l *Ledger) StartMilestone(paymentID, milestoneID string) (model.Payment, error) {
	return l.transitionMilestone(paymentID, milestoneID, "start milestone", func(m *model.Milestone) error {
		if m.Status != model.MilestonePending {
			return faults.InvalidState("start milestone", m.Status.String())
		}
		m.Status = model.MilestoneInProgress
		return nil
	})
}

// CompleteMilestone marks work on a milestone done. Allowed from PENDING
// as well, since small jobs skip the explicit start.
func (l *Ledger) CompleteMilestone(paymentID, milestoneID string) (model.Payment, error) {
	return l.transitionMilestone(paymentID, milestoneID, "complete milestone", func(m *model.Milestone) error {
		if m.Status != model.MilestonePending && m.Status != model.MilestoneInProgress {
			return faults.InvalidState("complete milestone", m.Status.String())
		}
		m.Status = model.MilestoneCompleted
		return nil
	})
}

// VerifyMilestone applies the external verification outcome to a
// COMPLETED milestone. A failed verification leaves the milestone
// COMPLETED so it can be re-verified after rework.
func (l *Ledger) VerifyMilestone(paymentID, milestoneID string, passed bool) (model.Payment, error) {
	return l.transitionMilestone(paymentID, milestoneID, "verify milestone", func(m *model.Milestone) error {
		if m.Status != model.MilestoneCompleted {
			return faults.InvalidState("verify milestone", m.Status.String())
		}
		if passed {
			m.Status = model.MilestoneVerified
		}
		return nil
	})
}

// ReleaseMilestone moves a VERIFIED milestone's amount from escrow to
// released funds. Milestones release in any order; the sequence number is
// not enforced. The payment becomes RELEASED once everything is paid out,
// PARTIAL_RELEASED otherwise.
func (l *Ledger) ReleaseMilestone(paymentID, milestoneID string) (model.Payment, error) {
	var out model.Payment
	var released float64
	err := l.store.Update(paymentID, func(p *model.Payment) error {
		if p.Status != model.PaymentEscrow && p.Status != model.PaymentPartialReleased {
			return faults.InvalidState("release milestone", p.Status.String())
		}
		idx := p.MilestoneByID(milestoneID)
		if idx < 0 {
			return faults.NotFound("milestone", milestoneID)
		}
		m := &p.Milestones[idx]
		if m.Status != model.MilestoneVerified {
			return faults.InvalidState("release milestone", m.Status.String())
		}
		if m.Amount > p.EscrowAmount {
			return faults.InvalidStatef("release milestone", p.Status.String(), "milestone amount %.2f exceeds escrow balance %.2f", m.Amount, p.EscrowAmount)
		}
		m.Status = model.MilestoneReleased
		p.EscrowAmount -= m.Amount
		p.ReleasedAmount += m.Amount
		if p.ReleasedAmount >= p.TotalAmount {
			p.Status = model.PaymentReleased
		} else {
			p.Status = model.PaymentPartialReleased
		}
		released = m.Amount
		out = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	escrowReleased.Add(released)
	l.log.Infof("payment %s released %.2f, status %s", paymentID, released, out.Status)
	return out, nil
}

// RefundToPayer zeroes the remaining escrow balance and terminates the
// payment. No further releases are possible afterwards.
func (l *Ledger) RefundToPayer(paymentID, reason string) (model.Payment, error) {
	var out model.Payment
	var refunded float64
	err := l.store.Update(paymentID, func(p *model.Payment) error {
		if p.Status != model.PaymentEscrow && p.Status != model.PaymentPartialReleased {
			return faults.InvalidState("refund to payer", p.Status.String())
		}
		refunded = p.EscrowAmount
		p.EscrowAmount = 0
		p.Status = model.PaymentRefunded
		out = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	escrowRefunded.Add(refunded)
	l.log.Warnf("payment %s refunded %.2f to payer: %s", paymentID, refunded, reason)
	return out, nil
}

// DisputeMilestone moves any non-terminal milestone to DISPUTED. Dispute
// resolution happens outside this core.
func (l *Ledger) DisputeMilestone(paymentID, milestoneID, reason string) (model.Payment, error) {
	out, err := l.transitionMilestone(paymentID, milestoneID, "dispute milestone", func(m *model.Milestone) error {
		if m.Status.Terminal() {
			return faults.InvalidState("dispute milestone", m.Status.String())
		}
		m.Status = model.MilestoneDisputed
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	l.log.Warnf("milestone %s of payment %s disputed: %s", milestoneID, paymentID, reason)
	return out, nil
}

// Get returns a copy of the payment.
func (l *Ledger) Get(paymentID string) (model.Payment, error) {
	return l.store.Get(paymentID)
}

// ByJob returns the payments created for a job.
func (l *Ledger) ByJob(jobID string) []model.Payment {
	return l.store.ByJob(jobID)
}

func (l *Ledger) transitionMilestone(paymentID, milestoneID, op string, fn func(*model.Milestone) error) (model.Payment, error) {
	var out model.Payment
	err := l.store.Update(paymentID, func(p *model.Payment) error {
		if p.Status.Terminal() {
			return faults.InvalidState(op, p.Status.String())
		}
		idx := p.MilestoneByID(milestoneID)
		if idx < 0 {
			return faults.NotFound("milestone", milestoneID)
		}
		if err := fn(&p.Milestones[idx]); err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	return out, nil
}
