package config

import (
	"fmt"
	"strings"
)

var validScopes = map[string]bool{
	"b": true, "build": true,
	"r": true, "runtime": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "text": true,
}

var validAuditBackends = map[string]bool{
	"memory": true, "sqlite3": true, "sqlite": true,
}

// Validate checks the configuration for semantic errors that YAML
// parsing cannot catch. It returns the first error found.
func Validate(cfg *Config) error {
	if err := validateEngine(&cfg.Engine); err != nil {
		return err
	}
	if err := validateSources(cfg.Sources); err != nil {
		return err
	}
	if err := validateLoader(&cfg.Loader); err != nil {
		return err
	}
	if err := validateWatch(&cfg.Watch); err != nil {
		return err
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return err
	}
	if err := validateAudit(&cfg.Audit); err != nil {
		return err
	}
	return nil
}

func validateEngine(engine *EngineConfig) error {
	scope := strings.ToLower(engine.Scope)
	if scope == "a" || scope == "all" {
		return fmt.Errorf("engine.scope: %q is not a valid active scope; use \"build\" or \"runtime\"", engine.Scope)
	}
	if !validScopes[scope] {
		return fmt.Errorf("engine.scope: unknown scope %q (valid: build, runtime)", engine.Scope)
	}
	return nil
}

func validateSources(sources []SourceConfig) error {
	for i, src := range sources {
		if src.Path == "" {
			return fmt.Errorf("sources[%d].path: path is required", i)
		}
	}
	return nil
}

func validateLoader(loader *LoaderConfig) error {
	if loader.MaxFileSize < 0 {
		return fmt.Errorf("loader.max_file_size: must be non-negative, got %d", loader.MaxFileSize)
	}
	for i, ext := range loader.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("loader.extensions[%d]: extension %q must start with a dot", i, ext)
		}
	}
	return nil
}

func validateWatch(watch *WatchConfig) error {
	if watch.DebounceInterval < 0 {
		return fmt.Errorf("watch.debounce_interval: must be non-negative, got %s", watch.DebounceInterval)
	}
	return nil
}

func validateTelemetry(telemetry *TelemetryConfig) error {
	if !validLogLevels[strings.ToLower(telemetry.Logging.Level)] {
		return fmt.Errorf("telemetry.logging.level: unknown level %q (valid: debug, info, warn, error)", telemetry.Logging.Level)
	}
	if !validLogFormats[strings.ToLower(telemetry.Logging.Format)] {
		return fmt.Errorf("telemetry.logging.format: unknown format %q (valid: json, text)", telemetry.Logging.Format)
	}
	return nil
}

func validateAudit(audit *AuditConfig) error {
	if !validAuditBackends[audit.Backend] {
		return fmt.Errorf("audit.backend: unknown backend %q (valid: memory, sqlite3, sqlite)", audit.Backend)
	}
	if audit.Backend != "memory" && audit.SQLite.Path == "" {
		return fmt.Errorf("audit.sqlite.path: path is required for backend %q", audit.Backend)
	}
	if audit.SQLite.MaxOpenConns < 0 {
		return fmt.Errorf("audit.sqlite.max_open_conns: must be non-negative, got %d", audit.SQLite.MaxOpenConns)
	}
	if audit.SQLite.MaxIdleConns > audit.SQLite.MaxOpenConns {
		return fmt.Errorf("audit.sqlite.max_idle_conns: %d exceeds max_open_conns %d",
			audit.SQLite.MaxIdleConns, audit.SQLite.MaxOpenConns)
	}
	if audit.Recorder.AsyncBuffer < 0 {
		return fmt.Errorf("audit.recorder.async_buffer: must be non-negative, got %d", audit.Recorder.AsyncBuffer)
	}
	if audit.Retention.RetentionDays < 0 {
		return fmt.Errorf("audit.retention.retention_days: must be non-negative, got %d", audit.Retention.RetentionDays)
	}
	if audit.Retention.MaxRecords < 0 {
		return fmt.Errorf("audit.retention.max_records: must be non-negative, got %d", audit.Retention.MaxRecords)
	}
	return nil
}
