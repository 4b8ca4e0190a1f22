package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ktakeda/loadplan/core/model"
)

// MemoryStore keeps plans in memory. Used by tests and by runs that do not
// need persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	headers map[string]Header
	plans   map[string]*model.LoadingPlanResult
	planned []PlannedQuantity
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		headers: make(map[string]Header),
		plans:   make(map[string]*model.LoadingPlanResult),
	}
}

// Save stores the result and returns the generated plan id.
func (s *MemoryStore) Save(_ context.Context, periodStart, periodEnd time.Time, res *model.LoadingPlanResult) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers[id] = Header{
		ID:          id,
		Name:        fmt.Sprintf("積載計画 %s", res.Period),
		PeriodStart: model.Day(periodStart),
		PeriodEnd:   model.Day(periodEnd),
		Status:      res.Summary.Status,
		CreatedAt:   time.Now().UTC(),
		Summary:     res.Summary,
	}
	s.plans[id] = res
	return id, nil
}

// Get returns a previously saved plan.
func (s *MemoryStore) Get(_ context.Context, id string) (Header, *model.LoadingPlanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[id]
	if !ok {
		return Header{}, nil, fmt.Errorf("plan %s not found", id)
	}
	return h, s.plans[id], nil
}

// List returns stored headers, newest first.
func (s *MemoryStore) List(_ context.Context) ([]Header, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Header, 0, len(s.headers))
	for _, h := range s.headers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes the plan.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[id]; !ok {
		return fmt.Errorf("plan %s not found", id)
	}
	delete(s.headers, id)
	delete(s.plans, id)
	return nil
}

// RecomputePlannedQuantities replaces the write-back table atomically.
func (s *MemoryStore) RecomputePlannedQuantities(_ context.Context, res *model.LoadingPlanResult) error {
	pqs := plannedQuantities(res)
	s.mu.Lock()
	s.planned = pqs
	s.mu.Unlock()
	return nil
}

// PlannedQuantities returns the current write-back state.
func (s *MemoryStore) PlannedQuantities(_ context.Context) ([]PlannedQuantity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlannedQuantity, len(s.planned))
	copy(out, s.planned)
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
