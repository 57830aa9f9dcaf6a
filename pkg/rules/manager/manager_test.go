package manager

import (
	"os"
	"testing"

	"starloader-hq/ras/pkg/rasfmt/ast"
)

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager(nil, nil); err == nil {
		t.Error("NewManager(nil) error = nil, want error")
	}
	if _, err := NewManager(&ManagerConfig{ActiveScope: ast.ScopeRuntime}, nil); err == nil {
		t.Error("NewManager with no sources error = nil, want error")
	}
	cfg := &ManagerConfig{
		ActiveScope: ast.ScopeAll,
		Sources:     []Source{{Namespace: "ns", Path: "x.ras"}},
	}
	if _, err := NewManager(cfg, nil); err == nil {
		t.Error("NewManager with ScopeAll error = nil, want error")
	}
}

func TestManager_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widening.ras", "RAS v1 std\n!a private 0 a/B\n")

	m, err := NewManager(&ManagerConfig{
		ActiveScope: ast.ScopeRuntime,
		Sources:     []Source{{Path: path}},
	}, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v, want nil", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	registry := m.Registry()
	if !registry.IsTarget("a/B") {
		t.Error("IsTarget(\"a/B\") = false, want true")
	}

	set, _ := registry.RulesFor("a/B")
	// Namespace label derives from the file base name.
	if sources := set.Self[0].Sources(); len(sources) != 1 || sources[0] != "widening" {
		t.Errorf("Sources() = %v, want [widening]", sources)
	}

	if _, lerr := m.LastLoad(); lerr != nil {
		t.Errorf("LastLoad() error = %v, want nil", lerr)
	}
}

func TestManager_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.ras", "RAS v1 std\n!a public 0 a/B\n")
	writeFile(t, dir, "two.ras", "RAS v1 std\n!a public 0 c/D\n")

	m, err := NewManager(&ManagerConfig{
		ActiveScope: ast.ScopeRuntime,
		Sources:     []Source{{Namespace: "pack", Path: dir}},
	}, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v, want nil", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	registry := m.Registry()
	if !registry.IsTarget("a/B") || !registry.IsTarget("c/D") {
		t.Error("directory load missed a namespace")
	}

	// Directory namespaces are prefixed with the source namespace.
	set, _ := registry.RulesFor("a/B")
	if sources := set.Self[0].Sources(); sources[0] != "pack/one" {
		t.Errorf("Sources() = %v, want [pack/one]", sources)
	}
}

func TestManager_ReloadKeepsLastGoodOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.ras", "RAS v1 std\n!a private 0 a/B\n")

	m, err := NewManager(&ManagerConfig{
		ActiveScope: ast.ScopeRuntime,
		Sources:     []Source{{Path: path}},
	}, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v, want nil", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	good := m.Registry()

	// Corrupt the file and reload: the error is reported, the previous
	// registry stays active.
	if err := os.WriteFile(path, []byte("RAS v1 std\n!x bogus 0 a/B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err == nil {
		t.Fatal("Reload() error = nil, want error")
	}

	if m.Registry() != good {
		t.Error("Registry() changed after failed reload")
	}
	if !m.Registry().IsTarget("a/B") {
		t.Error("last good registry lost its rules")
	}
	if _, lerr := m.LastLoad(); lerr == nil {
		t.Error("LastLoad() error = nil, want reload error")
	}

	// Fixing the file recovers on the next reload.
	if err := os.WriteFile(path, []byte("RAS v1 std\n!a private 0 c/D\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload() error = %v, want nil", err)
	}
	if !m.Registry().IsTarget("c/D") {
		t.Error("recovered registry missing new rules")
	}
	if m.Registry().IsTarget("a/B") {
		t.Error("recovered registry kept stale rules")
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    ast.Scope
		wantErr bool
	}{
		{"build", ast.ScopeBuild, false},
		{"b", ast.ScopeBuild, false},
		{"runtime", ast.ScopeRuntime, false},
		{"r", ast.ScopeRuntime, false},
		{"all", ast.ScopeAll, true},
		{"a", ast.ScopeAll, true},
		{"bogus", ast.ScopeAll, true},
	}

	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScope(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseScope(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
