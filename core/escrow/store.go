package escrow

import (
	"sort"
	"sync"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

// Store persists payments. Update serializes all mutations of one payment
// aggregate, which is what keeps the ledger invariants safe under
// concurrent callers.
type Store interface {
	// Create inserts a new payment.
	Create(p model.Payment) error
	// Get returns a copy of the payment.
	Get(paymentID string) (model.Payment, error)
	// ByJob returns the payments created for a job, oldest first.
	ByJob(jobID string) []model.Payment
	// Update applies fn to the payment under the aggregate lock. Changes
	// are discarded when fn returns an error.
	Update(paymentID string, fn func(*model.Payment) error) error
}

// MemoryStore is the in-memory Store used in tests and single-process
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	payments map[string]model.Payment
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payments: make(map[string]model.Payment)}
}

func clonePayment(p model.Payment) model.Payment {
	cp := p
	cp.Milestones = append([]model.Milestone(nil), p.Milestones...)
	return cp
}

func (s *MemoryStore) Create(p model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; ok {
		return faults.Validation("payment_id", "payment %s already exists", p.ID)
	}
	s.payments[p.ID] = clonePayment(p)
	return nil
}

func (s *MemoryStore) Get(paymentID string) (model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return model.Payment{}, faults.NotFound("payment", paymentID)
	}
	return clonePayment(p), nil
}

func (s *MemoryStore) ByJob(jobID string) []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.Payment
	for _, p := range s.payments {
		if p.JobID == jobID {
			res = append(res, clonePayment(p))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res
}

func (s *MemoryStore) Update(paymentID string, fn func(*model.Payment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return faults.NotFound("payment", paymentID)
	}
	work := clonePayment(p)
	if err := fn(&work); err != nil {
		return err
	}
	s.payments[paymentID] = work
	return nil
}
