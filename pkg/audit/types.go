package audit

import (
	"context"
	"time"
)

// Record is one audited rule application attempt.
type Record struct {
	// ID is a unique record identifier (UUID).
	ID string

	// RecordedAt is when the application was captured.
	RecordedAt time.Time

	// Class is the internal name of the class the rule targeted.
	Class string

	// Member and Descriptor identify the member, empty for class-level
	// applications.
	Member     string
	Descriptor string

	// Transform is the rule in "origin -> target" form.
	Transform string

	// Sources lists the namespaces that contributed the rule.
	Sources []string

	// Outcome is one of "applied", "skipped" or "failed".
	Outcome string

	// Before and After are the entity's access flags around the
	// application. Equal when the rule did not apply.
	Before int32
	After  int32
}

// QueryFilter selects records. Zero-valued fields match everything.
type QueryFilter struct {
	// Class filters by target class internal name.
	Class string

	// Outcome filters by application outcome.
	Outcome string

	// Since and Until bound RecordedAt (inclusive).
	Since *time.Time
	Until *time.Time

	// Limit caps the result set; zero means the backend default (100).
	Limit int

	// Offset skips leading results for pagination.
	Offset int
}

// Storage is the contract audit backends implement. Implementations
// must be safe for concurrent use.
type Storage interface {
	// Write persists one record.
	Write(ctx context.Context, record *Record) error

	// Query returns records matching the filter, newest first.
	Query(ctx context.Context, filter *QueryFilter) ([]*Record, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter *QueryFilter) (int64, error)

	// DeleteOlderThan removes records recorded before the cutoff and
	// returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteExceedingCount removes the oldest records until at most max
	// remain, returning the number removed.
	DeleteExceedingCount(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}
