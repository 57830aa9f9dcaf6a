package config

import "time"

// Config is the root configuration structure for the RAS toolchain.
// It contains all configuration sections for the rule engine, rule
// sources, file watching, telemetry, and the audit trail.
type Config struct {
	// Engine contains configuration for transform registration and
	// application, including the active scope and failure handling.
	Engine EngineConfig `yaml:"engine"`

	// Sources lists the RAS files and directories to load rules from.
	Sources []SourceConfig `yaml:"sources"`

	// Loader contains configuration for reading rule files from disk,
	// including size limits and extension filtering.
	Loader LoaderConfig `yaml:"loader"`

	// Watch contains configuration for hot-reloading rule sources on
	// filesystem changes.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains configuration for the transform audit trail
	// including backend selection and retention.
	Audit AuditConfig `yaml:"audit"`
}

// EngineConfig contains configuration for transform registration and
// application.
type EngineConfig struct {
	// Scope selects which transforms are active.
	// Options: "build", "runtime" (and their short forms "b", "r").
	// "all" is not a valid active scope; all-scoped transforms are
	// always active under either setting.
	// Default: "runtime"
	Scope string `yaml:"scope"`

	// ForceSilent downgrades every registered failure policy to soft,
	// suppressing warnings and hard aborts regardless of line prefixes.
	// Default: false
	ForceSilent bool `yaml:"force_silent"`
}

// SourceConfig identifies one RAS rule source. A source is either a
// single file or a directory that is walked for rule files.
type SourceConfig struct {
	// Path is the file or directory to load.
	Path string `yaml:"path"`

	// Namespace labels the source's transforms for merge tracking and
	// diagnostics. When empty the file name without extension is used;
	// for directories each contained file derives its own namespace.
	Namespace string `yaml:"namespace"`

	// Reversed loads the source's inverse transform set, undoing a
	// previously applied ruleset.
	// Default: false
	Reversed bool `yaml:"reversed"`
}

// LoaderConfig contains configuration for reading rule files.
type LoaderConfig struct {
	// MaxFileSize is the largest rule file the loader will read, in
	// bytes. Files beyond the limit are rejected rather than truncated.
	// Default: 4194304 (4MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// Extensions lists the file extensions recognized as rule files
	// when walking a directory source.
	// Default: [".ras"]
	Extensions []string `yaml:"extensions"`

	// SkipHidden controls whether dotfiles and dot-directories are
	// skipped during directory walks.
	// Default: true
	SkipHidden bool `yaml:"skip_hidden"`

	// FollowSymlinks controls whether directory walks descend into
	// symlinked directories.
	// Default: true
	FollowSymlinks bool `yaml:"follow_symlinks"`
}

// WatchConfig contains configuration for hot-reloading rule sources.
type WatchConfig struct {
	// Enabled controls whether rule sources are watched for changes.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DebounceInterval is how long to wait after a filesystem event
	// before reloading, coalescing editor write bursts into one reload.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output encoding.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource controls whether log records carry the file and line
	// of the logging call.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus namespace prefix for all metrics.
	// Default: "ras"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus subsystem for engine metrics.
	// Default: "engine"
	Subsystem string `yaml:"subsystem"`
}

// AuditConfig contains configuration for the transform audit trail.
type AuditConfig struct {
	// Enabled controls whether application records are captured.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the audit storage backend.
	// Options: "memory", "sqlite3" (cgo driver), "sqlite" (pure Go driver)
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains configuration for the SQLite backends.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains configuration for asynchronous record capture.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains configuration for pruning old records.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains configuration for the SQLite audit backends.
type SQLiteConfig struct {
	// Path is the database file location.
	// Default: "./ras-audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns limits concurrent database connections.
	// Default: 5
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits idle pooled connections.
	// Default: 2
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging for better concurrent
	// read/write behavior.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a locked database is retried before the
	// driver reports a busy error.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains configuration for asynchronous audit capture.
type RecorderConfig struct {
	// AsyncBuffer is the capacity of the in-flight record channel.
	// When the buffer is full, new records are dropped rather than
	// blocking transform application.
	// Default: 1024
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds each storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains configuration for pruning audit records.
type RetentionConfig struct {
	// RetentionDays is how many days of records to keep. Zero disables
	// age-based pruning.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the total number of stored records. Zero
	// disables count-based pruning.
	// Default: 0 (unlimited)
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for when pruning runs.
	// Default: "0 2 * * *" (daily at 2 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}
