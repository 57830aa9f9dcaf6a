package storage

import (
	"context"
	"testing"
	"time"

	"starloader-hq/ras/pkg/audit"
)

func record(id string, at time.Time, class, outcome string) *audit.Record {
	return &audit.Record{
		ID:         id,
		RecordedAt: at,
		Class:      class,
		Transform:  "private -> 0",
		Sources:    []string{"ns"},
		Outcome:    outcome,
		Before:     0x0002,
		After:      0x0000,
	}
}

func TestMemoryStorage_WriteAndQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	base := time.Now()

	for i, rec := range []*audit.Record{
		record("r1", base.Add(-2*time.Hour), "a/B", "applied"),
		record("r2", base.Add(-1*time.Hour), "a/B", "skipped"),
		record("r3", base, "c/D", "applied"),
	} {
		if err := s.Write(ctx, rec); err != nil {
			t.Fatalf("Write(#%d) error = %v, want nil", i, err)
		}
	}

	all, err := s.Query(ctx, nil)
	if err != nil {
		t.Fatalf("Query(nil) error = %v, want nil", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].ID != "r3" || all[2].ID != "r1" {
		t.Errorf("order = [%s %s %s], want newest first", all[0].ID, all[1].ID, all[2].ID)
	}

	byClass, err := s.Query(ctx, &audit.QueryFilter{Class: "a/B"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byClass) != 2 {
		t.Errorf("len(byClass) = %d, want 2", len(byClass))
	}

	byOutcome, err := s.Query(ctx, &audit.QueryFilter{Outcome: "applied"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byOutcome) != 2 {
		t.Errorf("len(byOutcome) = %d, want 2", len(byOutcome))
	}

	since := base.Add(-90 * time.Minute)
	recent, err := s.Query(ctx, &audit.QueryFilter{Since: &since})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Errorf("len(recent) = %d, want 2", len(recent))
	}
}

func TestMemoryStorage_QueryPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	base := time.Now()

	for i := 0; i < 5; i++ {
		rec := record("r", base.Add(time.Duration(i)*time.Minute), "a/B", "applied")
		if err := s.Write(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.Query(ctx, &audit.QueryFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Errorf("len(page) = %d, want 2", len(page))
	}

	past, err := s.Query(ctx, &audit.QueryFilter{Offset: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(past) != 0 {
		t.Errorf("len(past) = %d, want 0", len(past))
	}
}

func TestMemoryStorage_Count(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	base := time.Now()

	if err := s.Write(ctx, record("r1", base, "a/B", "applied")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, record("r2", base, "a/B", "failed")); err != nil {
		t.Fatal(err)
	}

	total, err := s.Count(ctx, nil)
	if err != nil || total != 2 {
		t.Errorf("Count(nil) = %d, %v, want 2, nil", total, err)
	}
	failed, err := s.Count(ctx, &audit.QueryFilter{Outcome: "failed"})
	if err != nil || failed != 1 {
		t.Errorf("Count(failed) = %d, %v, want 1, nil", failed, err)
	}
}

func TestMemoryStorage_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	base := time.Now()

	s.Write(ctx, record("old", base.Add(-48*time.Hour), "a/B", "applied"))
	s.Write(ctx, record("new", base, "a/B", "applied"))

	deleted, err := s.DeleteOlderThan(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v, want nil", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, _ := s.Query(ctx, nil)
	if len(remaining) != 1 || remaining[0].ID != "new" {
		t.Errorf("remaining = %v, want only the new record", remaining)
	}
}

func TestMemoryStorage_DeleteExceedingCount(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	base := time.Now()

	for i := 0; i < 5; i++ {
		s.Write(ctx, record("r", base.Add(time.Duration(i)*time.Minute), "a/B", "applied"))
	}

	deleted, err := s.DeleteExceedingCount(ctx, 2)
	if err != nil {
		t.Fatalf("DeleteExceedingCount() error = %v, want nil", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	count, _ := s.Count(ctx, nil)
	if count != 2 {
		t.Errorf("remaining count = %d, want 2", count)
	}

	// Newest records survive.
	remaining, _ := s.Query(ctx, nil)
	for _, r := range remaining {
		if r.RecordedAt.Before(base.Add(3 * time.Minute)) {
			t.Errorf("old record %s survived count pruning", r.RecordedAt)
		}
	}

	// Under the cap nothing is deleted.
	deleted, err = s.DeleteExceedingCount(ctx, 10)
	if err != nil || deleted != 0 {
		t.Errorf("DeleteExceedingCount(10) = %d, %v, want 0, nil", deleted, err)
	}
}

func TestMemoryStorage_WriteCopiesRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	rec := record("r1", time.Now(), "a/B", "applied")
	if err := s.Write(ctx, rec); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's record must not affect the stored copy.
	rec.Outcome = "mutated"
	rec.Sources[0] = "mutated"

	stored, _ := s.Query(ctx, nil)
	if stored[0].Outcome != "applied" {
		t.Errorf("stored Outcome = %q, want %q", stored[0].Outcome, "applied")
	}
	if stored[0].Sources[0] != "ns" {
		t.Errorf("stored Sources = %v, want [ns]", stored[0].Sources)
	}
}
