package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu      sync.RWMutex
	actions []*domain.ActionRecord
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

func (s *Store) RecordAction(ctx context.Context, record *domain.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}
	cp := *record
	s.actions = append(s.actions, &cp)
	return nil
}

// sorted returns a newest-first copy. Callers hold the read lock.
func (s *Store) sorted() []*domain.ActionRecord {
	out := make([]*domain.ActionRecord, len(s.actions))
	for i := range s.actions {
		cp := *s.actions[len(s.actions)-1-i]
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out
}

func (s *Store) ListActions(ctx context.Context, limit, offset int) ([]*domain.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.sorted()
	if offset >= len(records) {
		return []*domain.ActionRecord{}, nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], nil
}

func (s *Store) ListActionsForTarget(ctx context.Context, resource domain.Resource, targetID string, limit int) ([]*domain.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := []*domain.ActionRecord{}
	for _, r := range s.sorted() {
		if r.Resource == resource && r.TargetID == targetID {
			records = append(records, r)
			if len(records) == limit {
				break
			}
		}
	}
	return records, nil
}

func (s *Store) CountActions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actions), nil
}
