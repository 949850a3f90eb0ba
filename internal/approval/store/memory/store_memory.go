package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"invoicegate/internal/approval"
	"invoicegate/internal/platform/sentinel"
)

// Store is the volatile in-memory approval store. Safe for concurrent use;
// records are copied on the way in and out so callers can never mutate
// store-internal state.
type Store struct {
	mu      sync.RWMutex
	records map[string]*approval.Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]*approval.Record)}
}

func (s *Store) Create(_ context.Context, rec *approval.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("approval %s: %w", rec.ID, sentinel.ErrConflict)
	}

	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*approval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("approval %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) SetStatus(_ context.Context, id string, status approval.Status, decidedBy string) (*approval.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("approval %s: %w", id, sentinel.ErrNotFound)
	}
	if rec.Status != approval.StatusPending {
		return nil, fmt.Errorf("approval %s is %s: %w", id, rec.Status, sentinel.ErrInvalidState)
	}

	rec.Status = status
	rec.DecidedBy = decidedBy
	rec.UpdatedAt = time.Now().UTC()

	cp := *rec
	return &cp, nil
}

func (s *Store) ListAll(_ context.Context) ([]*approval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*approval.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	sortByCreatedDesc(out)
	return out, nil
}

func (s *Store) ListByStatus(_ context.Context, status approval.Status) ([]*approval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*approval.Record, 0)
	for _, rec := range s.records {
		if rec.Status == status {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sortByCreatedDesc(out)
	return out, nil
}

func (s *Store) ListPendingOverThreshold(_ context.Context, amount float64) ([]*approval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*approval.Record, 0)
	for _, rec := range s.records {
		if rec.Status == approval.StatusPending && rec.Total > amount {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// sortByCreatedDesc orders newest first, with the id as a tie-breaker so
// listings are stable when timestamps collide.
func sortByCreatedDesc(recs []*approval.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
