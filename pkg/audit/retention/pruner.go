// Package retention prunes old audit records by age and by count,
// either on demand or on a cron schedule.
package retention

import (
	"context"
	"log/slog"
	"time"

	"starloader-hq/ras/pkg/audit"
)

// Config contains retention settings for the pruner.
type Config struct {
	// RetentionDays is how many days of records to keep. Zero disables
	// age-based pruning.
	RetentionDays int

	// MaxRecords caps the stored record count. Zero disables
	// count-based pruning.
	MaxRecords int64

	// PruneSchedule is the cron expression the scheduler runs on.
	// Empty disables scheduled pruning.
	PruneSchedule string
}

// Pruner deletes audit records that fall outside the retention window
// or exceed the record cap.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger
}

// NewPruner creates a pruner over the given storage backend.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = &Config{}
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
	}
}

// Prune runs one pruning cycle: age-based pruning first, then
// count-based. It returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return total, err
		}
		total += deleted

		if deleted > 0 {
			p.logger.Info("pruned audit records by age",
				"deleted_count", deleted,
				"cutoff", cutoff,
			)
		}
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.DeleteExceedingCount(ctx, p.config.MaxRecords)
		if err != nil {
			return total, err
		}
		total += deleted

		if deleted > 0 {
			p.logger.Info("pruned audit records by count",
				"deleted_count", deleted,
				"max_records", p.config.MaxRecords,
			)
		}
	}

	return total, nil
}
