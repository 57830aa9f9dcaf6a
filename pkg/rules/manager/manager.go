package manager

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"starloader-hq/ras/pkg/rasfmt/ast"
	"starloader-hq/ras/pkg/telemetry/metrics"
)

// Source describes one configured RAS namespace: a file or directory
// to load under a namespace label. For directories the label of each
// file is derived from its base name and Namespace is used as a prefix.
type Source struct {
	// Namespace is the diagnostic label for the source. Optional for
	// directories, required for single files.
	Namespace string

	// Path is a RAS file or a directory of RAS files.
	Path string

	// Reversed derives the inverse transform set from this source.
	Reversed bool
}

// ManagerConfig contains configuration for the rule manager.
type ManagerConfig struct {
	// ActiveScope is "build" or "runtime"; never "all".
	ActiveScope ast.Scope

	// ForceSilent downgrades every policy to soft.
	ForceSilent bool

	// Sources lists the namespaces to load.
	Sources []Source

	// Loader configures file validation; nil selects defaults.
	Loader *LoaderConfig

	// Watcher configures hot reload; nil selects defaults. Watching
	// only starts when Watch is called.
	Watcher *WatcherConfig

	// Metrics is optional; load counts and durations are recorded when
	// set.
	Metrics *metrics.TransformMetrics
}

// Manager builds registries from configured sources and swaps in fresh
// ones on reload. Registries are append-only, so a reload constructs a
// new registry rather than mutating the live one; if any source fails,
// the last good registry stays active.
type Manager struct {
	config *ManagerConfig
	loader *Loader
	logger *slog.Logger

	mu            sync.RWMutex
	registry      *Registry
	lastLoadTime  time.Time
	lastLoadError error
}

// NewManager creates a rule manager. The initial registry is empty;
// call Load to populate it.
func NewManager(config *ManagerConfig, logger *slog.Logger) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(config.Sources) == 0 {
		return nil, fmt.Errorf("at least one source must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := NewRegistry(config.ActiveScope, config.ForceSilent, logger)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config:   config,
		loader:   NewLoader(config.Loader),
		logger:   logger.With("component", "rules.manager"),
		registry: registry,
	}, nil
}

// Load builds the registry from the configured sources. It is an alias
// for Reload kept for call-site clarity at startup.
func (m *Manager) Load() error {
	return m.Reload()
}

// Reload builds a fresh registry from the configured sources and swaps
// it in atomically. On failure the previous registry remains active and
// the error is returned.
func (m *Manager) Reload() error {
	start := time.Now()

	registry, err := m.build()

	m.mu.Lock()
	m.lastLoadTime = time.Now()
	m.lastLoadError = err
	if err == nil {
		m.registry = registry
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("RAS reload failed, keeping previous rules", "error", err)
		return err
	}

	if m.config.Metrics != nil {
		m.config.Metrics.ObserveLoad(time.Since(start))
		m.config.Metrics.SetTargetClasses(registry.TargetCount())
	}

	m.logger.Info("RAS rules loaded",
		"scope", m.config.ActiveScope,
		"sources", len(m.config.Sources),
		"target_classes", registry.TargetCount(),
		"duration", time.Since(start),
	)
	return nil
}

// build constructs a registry from scratch. Any failure aborts the
// whole build; partially built registries are discarded.
func (m *Manager) build() (*Registry, error) {
	registry, err := NewRegistry(m.config.ActiveScope, m.config.ForceSilent, m.logger)
	if err != nil {
		return nil, err
	}

	for _, source := range m.config.Sources {
		isDir, err := m.loader.IsDirectory(source.Path)
		if err != nil {
			return nil, err
		}

		paths := []string{source.Path}
		if isDir {
			paths, err = m.loader.CollectFiles(source.Path)
			if err != nil {
				return nil, err
			}
		}

		for _, path := range paths {
			namespace := source.Namespace
			if isDir {
				namespace = m.loader.NamespaceFor(path)
				if source.Namespace != "" {
					namespace = source.Namespace + "/" + namespace
				}
			} else if namespace == "" {
				namespace = m.loader.NamespaceFor(path)
			}

			data, err := m.loader.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if err := registry.Load(namespace, bytes.NewReader(data), source.Reversed); err != nil {
				return nil, fmt.Errorf("namespace %q (%s): %w", namespace, path, err)
			}
			if m.config.Metrics != nil {
				m.config.Metrics.RecordNamespaceLoad(namespace)
			}
		}
	}

	return registry, nil
}

// Registry returns the currently active registry.
func (m *Manager) Registry() *Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry
}

// LastLoad returns the time and outcome of the most recent load
// attempt.
func (m *Manager) LastLoad() (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastLoadTime, m.lastLoadError
}

// Watch blocks watching the configured source paths and reloads on
// change until the context is cancelled.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := NewWatcher(m.config.Watcher, m.logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	paths := make([]string, 0, len(m.config.Sources))
	for _, source := range m.config.Sources {
		paths = append(paths, source.Path)
	}

	return watcher.Watch(ctx, paths, func() {
		// Reload errors keep the previous registry; nothing to do here
		// beyond what Reload already logs.
		_ = m.Reload()
	})
}

// ParseScope resolves a configuration scope string ("build" or
// "runtime") into an ast.Scope. "all" is rejected: a registry is always
// constructed for one concrete environment.
func ParseScope(s string) (ast.Scope, error) {
	switch s {
	case "build", "b":
		return ast.ScopeBuild, nil
	case "runtime", "r":
		return ast.ScopeRuntime, nil
	case "all", "a":
		return ast.ScopeAll, fmt.Errorf("active scope may not be %q", s)
	default:
		return ast.ScopeAll, fmt.Errorf("unknown scope %q", s)
	}
}
