package ras

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"starloader-hq/ras/pkg/config"
	"starloader-hq/ras/pkg/rules/engine"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.ras")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func baseConfig(rulesPath string) *config.Config {
	cfg := &config.Config{}
	cfg.Sources = []config.SourceConfig{{Path: rulesPath, Namespace: "test"}}
	return cfg
}

func TestNew_AppliesTransforms(t *testing.T) {
	rules := "RAS v1 std\n" +
		"!r private 0 org/example/Widget\n" +
		"!r 0 public org/example/Widget\n"
	cfg := baseConfig(writeRules(t, rules))
	cfg.Audit.Enabled = true

	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !rt.IsTarget("org/example/Widget") {
		t.Error("IsTarget(org/example/Widget) = false, want true")
	}
	if rt.IsTarget("org/example/Other") {
		t.Error("IsTarget(org/example/Other) = true, want false")
	}

	class := &engine.Class{ClassName: "org/example/Widget", Access: 0x0002}
	if err := rt.ApplyClass(class); err != nil {
		t.Fatalf("ApplyClass() error = %v", err)
	}
	if class.Access != 0x0001 {
		t.Errorf("class access = %#x, want %#x", class.Access, 0x0001)
	}

	if err := rt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Close drains the recorder, so the records are queryable now.
	records, err := rt.AuditStorage().Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Outcome != "applied" {
			t.Errorf("record outcome = %q, want %q", rec.Outcome, "applied")
		}
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) error = nil, want error")
	}
}

func TestNew_InvalidScope(t *testing.T) {
	cfg := baseConfig(writeRules(t, "RAS v1 std\n"))
	cfg.Engine.Scope = "all"

	if _, err := New(cfg); err == nil {
		t.Fatal("New() error = nil, want scope error")
	}
}

func TestNew_LoadFailureIsFatal(t *testing.T) {
	cfg := baseConfig(writeRules(t, "RAS v9 std\n"))

	if _, err := New(cfg); err == nil {
		t.Fatal("New() error = nil, want header error")
	}
}

func TestRuntime_MetricsHandler(t *testing.T) {
	cfg := baseConfig(writeRules(t, "RAS v1 std\n"))
	cfg.Telemetry.Metrics.Enabled = true

	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rt.Close()

	if rt.MetricsHandler() == nil {
		t.Error("MetricsHandler() = nil, want handler when metrics enabled")
	}
}

func TestRuntime_MetricsDisabledByDefault(t *testing.T) {
	cfg := baseConfig(writeRules(t, "RAS v1 std\n"))

	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rt.Close()

	if rt.MetricsHandler() != nil {
		t.Error("MetricsHandler() != nil, want nil when metrics disabled")
	}
}

func TestRuntime_StartWithoutBackgroundWork(t *testing.T) {
	cfg := baseConfig(writeRules(t, "RAS v1 std\n"))

	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := rt.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestRuntime_HotReloadSwapsRules(t *testing.T) {
	path := writeRules(t, "RAS v1 std\n!r private 0 org/example/A\n")
	cfg := baseConfig(path)

	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rt.Close()

	if !rt.IsTarget("org/example/A") {
		t.Fatal("IsTarget(org/example/A) = false, want true")
	}

	updated := "RAS v1 std\n!r private 0 org/example/B\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := rt.Manager().Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if rt.IsTarget("org/example/A") {
		t.Error("IsTarget(org/example/A) = true after reload, want false")
	}
	if !rt.IsTarget("org/example/B") {
		t.Error("IsTarget(org/example/B) = false after reload, want true")
	}
}
