package ras

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"starloader-hq/ras/pkg/audit"
	"starloader-hq/ras/pkg/audit/recorder"
	"starloader-hq/ras/pkg/audit/retention"
	"starloader-hq/ras/pkg/audit/storage"
	"starloader-hq/ras/pkg/config"
	"starloader-hq/ras/pkg/rules/engine"
	"starloader-hq/ras/pkg/rules/manager"
	"starloader-hq/ras/pkg/telemetry/logging"
	"starloader-hq/ras/pkg/telemetry/metrics"
)

// Runtime owns a fully wired RAS pipeline: rule manager, application
// engine, telemetry, and the optional audit trail.
type Runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.TransformMetrics
	manager *manager.Manager

	auditStorage audit.Storage
	recorder     *recorder.Recorder
	scheduler    *retention.Scheduler
}

// New builds a runtime from the configuration, applies defaults,
// validates, and performs the initial rule load. A load failure is
// fatal here; later reloads keep the last good rule set instead.
func New(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{cfg: cfg, logger: logger}

	if cfg.Telemetry.Metrics.Enabled {
		rt.metrics = metrics.New(&metrics.Config{
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: cfg.Telemetry.Metrics.Subsystem,
		}, nil)
	}

	scope, err := manager.ParseScope(cfg.Engine.Scope)
	if err != nil {
		return nil, err
	}

	sources := make([]manager.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, manager.Source{
			Namespace: s.Namespace,
			Path:      s.Path,
			Reversed:  s.Reversed,
		})
	}

	rt.manager, err = manager.NewManager(&manager.ManagerConfig{
		ActiveScope: scope,
		ForceSilent: cfg.Engine.ForceSilent,
		Sources:     sources,
		Loader: &manager.LoaderConfig{
			MaxFileSize:       cfg.Loader.MaxFileSize,
			AllowedExtensions: cfg.Loader.Extensions,
			SkipHidden:        cfg.Loader.SkipHidden,
			FollowSymlinks:    cfg.Loader.FollowSymlinks,
		},
		Watcher: &manager.WatcherConfig{
			DebounceInterval: cfg.Watch.DebounceInterval,
			Extensions:       cfg.Loader.Extensions,
		},
		Metrics: rt.metrics,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := rt.manager.Load(); err != nil {
		return nil, err
	}

	if cfg.Audit.Enabled {
		if err := rt.initAudit(); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// initAudit wires the configured audit backend, the async recorder and
// the retention pruner.
func (rt *Runtime) initAudit() error {
	cfg := rt.cfg.Audit

	switch cfg.Backend {
	case "memory":
		rt.auditStorage = storage.NewMemoryStorage()
	case "sqlite3", "sqlite":
		sqliteCfg := &storage.SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		}
		var err error
		if cfg.Backend == "sqlite3" {
			rt.auditStorage, err = storage.NewSQLiteStorage(sqliteCfg)
		} else {
			rt.auditStorage, err = storage.NewPureGoStorage(sqliteCfg)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported audit backend: %s", cfg.Backend)
	}

	rt.recorder = recorder.NewRecorder(rt.auditStorage, &recorder.Config{
		AsyncBuffer:  cfg.Recorder.AsyncBuffer,
		WriteTimeout: cfg.Recorder.WriteTimeout,
	})

	pruner := retention.NewPruner(rt.auditStorage, &retention.Config{
		RetentionDays: cfg.Retention.RetentionDays,
		MaxRecords:    cfg.Retention.MaxRecords,
		PruneSchedule: cfg.Retention.PruneSchedule,
	})
	rt.scheduler = retention.NewScheduler(pruner)
	return nil
}

// Start launches the background pieces: the retention scheduler and,
// when enabled, the source watcher. Both stop when ctx is cancelled.
// Start returns immediately; rule application needs no Start.
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.scheduler != nil {
		if err := rt.scheduler.Start(ctx); err != nil {
			return err
		}
	}

	if rt.cfg.Watch.Enabled {
		go func() {
			if err := rt.manager.Watch(ctx); err != nil && ctx.Err() == nil {
				rt.logger.Error("source watcher stopped", "error", err)
			}
		}()
	}
	return nil
}

// Engine returns an application engine bound to the currently active
// rule set. After a hot reload swaps the rule set, previously obtained
// engines keep applying the old rules; acquire a fresh engine per
// batch.
func (rt *Runtime) Engine() *engine.Engine {
	cfg := &engine.Config{Metrics: rt.metrics}
	if rt.recorder != nil {
		cfg.Auditor = rt.recorder
	}
	return engine.New(rt.manager.Registry(), rt.logger, cfg)
}

// ApplyClass applies the active rules to one class model.
func (rt *Runtime) ApplyClass(node engine.ClassModel) error {
	return rt.Engine().ApplyClass(node)
}

// IsTarget reports whether the class has registered rules, against the
// currently active rule set.
func (rt *Runtime) IsTarget(internalName string) bool {
	return rt.manager.Registry().IsTarget(internalName)
}

// Manager exposes the rule manager for reloads and load inspection.
func (rt *Runtime) Manager() *manager.Manager {
	return rt.manager
}

// Logger returns the runtime's configured logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// MetricsHandler returns the Prometheus exposition handler, or nil
// when metrics are disabled.
func (rt *Runtime) MetricsHandler() http.Handler {
	if rt.metrics == nil {
		return nil
	}
	return rt.metrics.Handler()
}

// AuditStorage exposes the audit backend for queries, or nil when
// auditing is disabled.
func (rt *Runtime) AuditStorage() audit.Storage {
	return rt.auditStorage
}

// Close flushes the audit recorder, stops the retention scheduler and
// closes the audit backend.
func (rt *Runtime) Close() error {
	if rt.recorder != nil {
		if err := rt.recorder.Close(); err != nil {
			rt.logger.Error("failed to close audit recorder", "error", err)
		}
	}
	if rt.scheduler != nil {
		rt.scheduler.Stop()
	}
	if rt.auditStorage != nil {
		return rt.auditStorage.Close()
	}
	return nil
}
