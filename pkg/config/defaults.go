package config

import "time"

// Default values applied by ApplyDefaults when the corresponding
// fields are unset.
const (
	// DefaultEngineScope is the default active scope.
	DefaultEngineScope = "runtime"

	// DefaultLoaderMaxFileSize is the default rule file size limit (4MB).
	DefaultLoaderMaxFileSize int64 = 4 * 1024 * 1024

	// DefaultWatchDebounceInterval is the default reload debounce.
	DefaultWatchDebounceInterval = 100 * time.Millisecond

	// DefaultLoggingLevel is the default minimum log level.
	DefaultLoggingLevel = "info"

	// DefaultLoggingFormat is the default log encoding.
	DefaultLoggingFormat = "json"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "ras"

	// DefaultMetricsSubsystem is the default Prometheus subsystem.
	DefaultMetricsSubsystem = "engine"

	// DefaultAuditBackend is the default audit storage backend.
	DefaultAuditBackend = "memory"

	// DefaultSQLitePath is the default audit database location.
	DefaultSQLitePath = "./ras-audit.db"

	// DefaultSQLiteMaxOpenConns is the default connection limit.
	DefaultSQLiteMaxOpenConns = 5

	// DefaultSQLiteMaxIdleConns is the default idle connection limit.
	DefaultSQLiteMaxIdleConns = 2

	// DefaultSQLiteBusyTimeout is the default busy retry window.
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// DefaultRecorderAsyncBuffer is the default record channel capacity.
	DefaultRecorderAsyncBuffer = 1024

	// DefaultRecorderWriteTimeout bounds each audit storage write.
	DefaultRecorderWriteTimeout = 5 * time.Second

	// DefaultRetentionDays is the default audit retention window.
	DefaultRetentionDays = 30

	// DefaultPruneSchedule runs retention pruning daily at 2 AM.
	DefaultPruneSchedule = "0 2 * * *"
)

// DefaultLoaderExtensions returns the default rule file extensions.
func DefaultLoaderExtensions() []string {
	return []string{".ras"}
}

// ApplyDefaults fills unset fields with their default values. It is
// idempotent and never overwrites a value the user set explicitly,
// with the caveat that a boolean default of true cannot be told apart
// from an explicit false; SkipHidden, FollowSymlinks and WALMode are
// therefore always forced on, while the opt-in feature toggles (watch,
// metrics, audit) default off.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.Scope == "" {
		cfg.Engine.Scope = DefaultEngineScope
	}

	if cfg.Loader.MaxFileSize == 0 {
		cfg.Loader.MaxFileSize = DefaultLoaderMaxFileSize
	}
	if len(cfg.Loader.Extensions) == 0 {
		cfg.Loader.Extensions = DefaultLoaderExtensions()
	}
	if !cfg.Loader.SkipHidden {
		cfg.Loader.SkipHidden = true
	}
	if !cfg.Loader.FollowSymlinks {
		cfg.Loader.FollowSymlinks = true
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounceInterval
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if !cfg.Audit.SQLite.WALMode {
		cfg.Audit.SQLite.WALMode = true
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Audit.Recorder.AsyncBuffer == 0 {
		cfg.Audit.Recorder.AsyncBuffer = DefaultRecorderAsyncBuffer
	}
	if cfg.Audit.Recorder.WriteTimeout == 0 {
		cfg.Audit.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if cfg.Audit.Retention.RetentionDays == 0 {
		cfg.Audit.Retention.RetentionDays = DefaultRetentionDays
	}
	if cfg.Audit.Retention.PruneSchedule == "" {
		cfg.Audit.Retention.PruneSchedule = DefaultPruneSchedule
	}
}
