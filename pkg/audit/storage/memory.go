package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"starloader-hq/ras/pkg/audit"
)

// MemoryStorage implements audit.Storage in process memory. It is
// intended for tests and short-lived tooling where persistence is not
// needed.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.Record
}

// NewMemoryStorage creates an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Write persists one record.
func (s *MemoryStorage) Write(ctx context.Context, record *audit.Record) error {
	cp := *record
	cp.Sources = append([]string(nil), record.Sources...)

	s.mu.Lock()
	s.records = append(s.records, &cp)
	s.mu.Unlock()
	return nil
}

// Query returns records matching the filter, newest first.
func (s *MemoryStorage) Query(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Record, error) {
	s.mu.RLock()
	matched := s.match(filter)
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	offset := 0
	limit := 100
	if filter != nil {
		if filter.Offset > 0 {
			offset = filter.Offset
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}
	if offset >= len(matched) {
		return []*audit.Record{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of records matching the filter.
func (s *MemoryStorage) Count(ctx context.Context, filter *audit.QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.match(filter))), nil
}

// DeleteOlderThan removes records recorded before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	deleted := int64(0)
	for _, r := range s.records {
		if r.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// DeleteExceedingCount removes the oldest records until at most max
// remain.
func (s *MemoryStorage) DeleteExceedingCount(ctx context.Context, max int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excess := int64(len(s.records)) - max
	if excess <= 0 {
		return 0, nil
	}

	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].RecordedAt.Before(s.records[j].RecordedAt)
	})
	s.records = append([]*audit.Record(nil), s.records[excess:]...)
	return excess, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

// match returns the records passing the filter. Caller holds a lock.
func (s *MemoryStorage) match(filter *audit.QueryFilter) []*audit.Record {
	out := make([]*audit.Record, 0, len(s.records))
	for _, r := range s.records {
		if filter != nil {
			if filter.Class != "" && r.Class != filter.Class {
				continue
			}
			if filter.Outcome != "" && r.Outcome != filter.Outcome {
				continue
			}
			if filter.Since != nil && r.RecordedAt.Before(*filter.Since) {
				continue
			}
			if filter.Until != nil && r.RecordedAt.After(*filter.Until) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
