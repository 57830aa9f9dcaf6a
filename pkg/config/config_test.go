package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Engine.Scope != "runtime" {
		t.Errorf("Engine.Scope = %q, want %q", cfg.Engine.Scope, "runtime")
	}
	if cfg.Loader.MaxFileSize != DefaultLoaderMaxFileSize {
		t.Errorf("Loader.MaxFileSize = %d, want %d", cfg.Loader.MaxFileSize, DefaultLoaderMaxFileSize)
	}
	if len(cfg.Loader.Extensions) != 1 || cfg.Loader.Extensions[0] != ".ras" {
		t.Errorf("Loader.Extensions = %v, want [.ras]", cfg.Loader.Extensions)
	}
	if cfg.Watch.DebounceInterval != 100*time.Millisecond {
		t.Errorf("Watch.DebounceInterval = %v, want 100ms", cfg.Watch.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %q/%q, want info/json",
			cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Loader.SkipHidden {
		t.Error("Loader.SkipHidden = false, want true")
	}
	if !cfg.Loader.FollowSymlinks {
		t.Error("Loader.FollowSymlinks = false, want true")
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Audit.Backend = %q, want %q", cfg.Audit.Backend, "memory")
	}
	if !cfg.Audit.SQLite.WALMode {
		t.Error("Audit.SQLite.WALMode = false, want true")
	}
	if cfg.Audit.Retention.PruneSchedule != DefaultPruneSchedule {
		t.Errorf("Retention.PruneSchedule = %q, want %q", cfg.Audit.Retention.PruneSchedule, DefaultPruneSchedule)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Engine.Scope = "build"
	cfg.Telemetry.Logging.Format = "text"
	ApplyDefaults(&cfg)

	if cfg.Engine.Scope != "build" {
		t.Errorf("Engine.Scope = %q, want %q", cfg.Engine.Scope, "build")
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Telemetry.Logging.Format, "text")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
engine:
  scope: build
  force_silent: true
sources:
  - path: ./rules/widening.ras
    namespace: widening
  - path: ./rules/pack
    reversed: true
watch:
  enabled: true
  debounce_interval: 250ms
audit:
  enabled: true
  backend: sqlite3
  sqlite:
    path: /tmp/audit.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}

	if cfg.Engine.Scope != "build" || !cfg.Engine.ForceSilent {
		t.Errorf("engine = %+v, want build/force_silent", cfg.Engine)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(cfg.Sources))
	}
	if cfg.Sources[0].Namespace != "widening" || cfg.Sources[1].Reversed != true {
		t.Errorf("sources = %+v, want namespace and reversed set", cfg.Sources)
	}
	if cfg.Watch.DebounceInterval != 250*time.Millisecond {
		t.Errorf("DebounceInterval = %v, want 250ms", cfg.Watch.DebounceInterval)
	}
	if cfg.Audit.Backend != "sqlite3" || cfg.Audit.SQLite.Path != "/tmp/audit.db" {
		t.Errorf("audit = %+v, want sqlite3 backend", cfg.Audit)
	}
	// Defaults fill the rest.
	if cfg.Loader.MaxFileSize != DefaultLoaderMaxFileSize {
		t.Errorf("Loader.MaxFileSize = %d, want default", cfg.Loader.MaxFileSize)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) error = nil, want error")
	}

	bad := writeConfig(t, "engine: [not a mapping\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Error("LoadConfig(malformed yaml) error = nil, want error")
	}

	invalid := writeConfig(t, "engine:\n  scope: all\n")
	if _, err := LoadConfig(invalid); err == nil {
		t.Error("LoadConfig(scope=all) error = nil, want validation error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "engine:\n  scope: runtime\n")

	t.Setenv("RAS_ENGINE_SCOPE", "build")
	t.Setenv("RAS_ENGINE_FORCE_SILENT", "true")
	t.Setenv("RAS_AUDIT_RETENTION_DAYS", "7")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v, want nil", err)
	}
	if cfg.Engine.Scope != "build" {
		t.Errorf("Engine.Scope = %q, want env override %q", cfg.Engine.Scope, "build")
	}
	if !cfg.Engine.ForceSilent {
		t.Error("Engine.ForceSilent = false, want env override true")
	}
	if cfg.Audit.Retention.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", cfg.Audit.Retention.RetentionDays)
	}
}

func TestLoadConfigWithEnvOverrides_ValidatedAfterOverride(t *testing.T) {
	path := writeConfig(t, "engine:\n  scope: runtime\n")
	t.Setenv("RAS_ENGINE_SCOPE", "all")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("LoadConfigWithEnvOverrides() error = nil, want validation error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		ApplyDefaults(&cfg)
		return &cfg
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("Validate(defaults) error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"scope all", func(c *Config) { c.Engine.Scope = "all" }},
		{"scope unknown", func(c *Config) { c.Engine.Scope = "sideways" }},
		{"source without path", func(c *Config) { c.Sources = []SourceConfig{{Namespace: "x"}} }},
		{"negative max file size", func(c *Config) { c.Loader.MaxFileSize = -1 }},
		{"extension without dot", func(c *Config) { c.Loader.Extensions = []string{"ras"} }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceInterval = -time.Second }},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }},
		{"bad audit backend", func(c *Config) { c.Audit.Backend = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Audit.Backend = "sqlite"; c.Audit.SQLite.Path = "" }},
		{"idle exceeds open", func(c *Config) { c.Audit.SQLite.MaxIdleConns = 50 }},
		{"negative retention", func(c *Config) { c.Audit.Retention.RetentionDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
