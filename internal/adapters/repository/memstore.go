package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/stride/internal/domain/model"
)

// MemoryStore is a slice-backed Store. Inserts use binary search, so loading
// an already sorted export is linear.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.ActivityRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add inserts rec after every record that starts at or before it.
func (s *MemoryStore) Add(_ context.Context, rec model.ActivityRecord) error {
	if rec.Date.IsZero() {
		return ErrZeroDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(rec)
	return nil
}

// AddAll checks the whole batch before inserting any of it.
func (s *MemoryStore) AddAll(_ context.Context, recs []model.ActivityRecord) error {
	for i, rec := range recs {
		if rec.Date.IsZero() {
			return fmt.Errorf("%w: batch record %d", ErrZeroDate, i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		s.insert(rec)
	}
	return nil
}

func (s *MemoryStore) insert(rec model.ActivityRecord) {
	i := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Date.After(rec.Date)
	})
	s.records = append(s.records, model.ActivityRecord{})
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = rec
}

// All returns a copy of every record, oldest first.
func (s *MemoryStore) All(_ context.Context) []model.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ActivityRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Range returns records with from <= Date < to.
func (s *MemoryStore) Range(_ context.Context, from, to time.Time) ([]model.ActivityRecord, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := sort.Search(len(s.records), func(i int) bool { return !s.records[i].Date.Before(from) })
	hi := sort.Search(len(s.records), func(i int) bool { return !s.records[i].Date.Before(to) })
	out := make([]model.ActivityRecord, hi-lo)
	copy(out, s.records[lo:hi])
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
