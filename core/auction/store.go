package auction

import (
	"sort"
	"sync"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

// Store persists per-job auctions and their bids. Update serializes all
// mutations of one aggregate, which is what keeps the award and duplicate
// rules safe under concurrent callers.
type Store interface {
	// Create inserts a new auction for a job that has none.
	Create(a model.Auction) error
	// Get returns a copy of the auction for the job.
	Get(jobID string) (model.Auction, error)
	// JobForBid resolves the job owning the given bid id.
	JobForBid(bidID string) (string, error)
	// Update applies fn to the auction under the aggregate lock. Changes
	// are discarded when fn returns an error.
	Update(jobID string, fn func(*model.Auction) error) error
	// List returns every auction, ordered by job id.
	List() []model.Auction
}

// MemoryStore is the in-memory Store used in tests and single-process
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction
	bidIndex map[string]string // bid id -> job id
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
		bidIndex: make(map[string]string),
	}
}

func cloneAuction(a model.Auction) model.Auction {
	cp := a
	cp.Bids = append([]model.Bid(nil), a.Bids...)
	return cp
}

func (s *MemoryStore) Create(a model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[a.JobID]; ok {
		return faults.InvalidStatef("create auction", s.auctions[a.JobID].Status.String(), "auction for job %s already exists", a.JobID)
	}
	s.auctions[a.JobID] = cloneAuction(a)
	return nil
}

func (s *MemoryStore) Get(jobID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auctions[jobID]
	if !ok {
		return model.Auction{}, faults.NotFound("auction", jobID)
	}
	return cloneAuction(a), nil
}

func (s *MemoryStore) JobForBid(bidID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobID, ok := s.bidIndex[bidID]
	if !ok {
		return "", faults.NotFound("bid", bidID)
	}
	return jobID, nil
}

func (s *MemoryStore) Update(jobID string, fn func(*model.Auction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[jobID]
	if !ok {
		return faults.NotFound("auction", jobID)
	}
	work := cloneAuction(a)
	if err := fn(&work); err != nil {
		return err
	}
	s.auctions[jobID] = work
	for _, b := range work.Bids {
		s.bidIndex[b.ID] = jobID
	}
	return nil
}

func (s *MemoryStore) List() []model.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		res = append(res, cloneAuction(a))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].JobID < res[j].JobID })
	return res
}
