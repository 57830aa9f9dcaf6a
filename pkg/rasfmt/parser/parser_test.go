package parser

import (
	"errors"
	"strings"
	"testing"

	"starloader-hq/ras/pkg/rasfmt/access"
	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
)

func parse(t *testing.T, source string) (*ast.File, error) {
	t.Helper()
	return New(Config{}).Parse("test", strings.NewReader(source))
}

func mustParse(t *testing.T, source string) *ast.File {
	t.Helper()
	file, err := parse(t, source)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	return file
}

func wantErrType(t *testing.T, err error, want raserrors.Type) {
	t.Helper()
	if err == nil {
		t.Fatal("Parse() error = nil, want error")
	}
	var rerr *raserrors.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("Parse() error = %T, want *errors.Error", err)
	}
	if rerr.Type != want {
		t.Errorf("error type = %q, want %q", rerr.Type, want)
	}
}

func TestParse_HeaderVersions(t *testing.T) {
	for _, version := range []string{"1", "v1", "1.0", "v1.0", "1.1", "v1.1"} {
		file := mustParse(t, "RAS "+version+" std\n")
		if file.Version != version {
			t.Errorf("file.Version = %q, want %q", file.Version, version)
		}
		if file.Dialect != "std" {
			t.Errorf("file.Dialect = %q, want %q", file.Dialect, "std")
		}
	}
}

func TestParse_HeaderDialects(t *testing.T) {
	for _, dialect := range []string{"std", "starrian"} {
		file := mustParse(t, "RAS v1 "+dialect+"\n")
		if file.Dialect != dialect {
			t.Errorf("file.Dialect = %q, want %q", file.Dialect, dialect)
		}
	}
}

func TestParse_HeaderAfterCommentsAndBlanks(t *testing.T) {
	source := "# leading comment\n\n  \n# another\nRAS v1 std\n!a public 0 a/B\n"
	file := mustParse(t, source)
	if len(file.Transforms) != 1 {
		t.Fatalf("len(Transforms) = %d, want 1", len(file.Transforms))
	}
}

func TestParse_HeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty input", ""},
		{"only comments", "# nothing here\n\n"},
		{"wrong magic", "SAR v1 std\n"},
		{"missing dialect", "RAS v1\n"},
		{"extra field", "RAS v1 std extra\n"},
		{"unsupported version", "RAS v2 std\n"},
		{"unsupported dialect", "RAS v1 nonsense\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.source)
			wantErrType(t, err, raserrors.TypeHeader)
		})
	}
}

func TestParse_TransformLine(t *testing.T) {
	file := mustParse(t, "RAS v1 std\n!r private 0 org/example/Widget\n")
	if len(file.Transforms) != 1 {
		t.Fatalf("len(Transforms) = %d, want 1", len(file.Transforms))
	}

	tr := file.Transforms[0]
	if tr.Origin != access.Private {
		t.Errorf("Origin = %v, want Private", tr.Origin)
	}
	if tr.Target != access.Negate {
		t.Errorf("Target = %v, want Negate", tr.Target)
	}
	if tr.Policy != ast.FailHard {
		t.Errorf("Policy = %v, want FailHard", tr.Policy)
	}
	if tr.Scope != ast.ScopeRuntime {
		t.Errorf("Scope = %v, want ScopeRuntime", tr.Scope)
	}
	if tr.Class != "org/example/Widget" {
		t.Errorf("Class = %q, want %q", tr.Class, "org/example/Widget")
	}
	if tr.IsMember() {
		t.Error("IsMember() = true, want false")
	}
	if tr.Location.Line != 2 {
		t.Errorf("Location.Line = %d, want 2", tr.Location.Line)
	}
}

func TestParse_PrefixPolicies(t *testing.T) {
	tests := []struct {
		prefix string
		want   ast.FailPolicy
	}{
		{" ", ast.FailWarn},
		{"@", ast.FailSoft},
		{"!", ast.FailHard},
	}

	for _, tt := range tests {
		file := mustParse(t, "RAS v1 std\n"+tt.prefix+"a public 0 a/B\n")
		if got := file.Transforms[0].Policy; got != tt.want {
			t.Errorf("prefix %q: Policy = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestParse_LenientMissingPrefix(t *testing.T) {
	// A line beginning directly with a scope token gets a synthesized
	// space prefix and the warn policy.
	file := mustParse(t, "RAS v1 std\nruntime public 0 a/B\n")
	if got := file.Transforms[0].Policy; got != ast.FailWarn {
		t.Errorf("Policy = %v, want FailWarn", got)
	}
	if got := file.Transforms[0].Scope; got != ast.ScopeRuntime {
		t.Errorf("Scope = %v, want ScopeRuntime", got)
	}
}

func TestParse_MemberKinds(t *testing.T) {
	source := "RAS v1 std\n" +
		"!a private 0 a/B run ()V\n" +
		"!a private 0 a/B width I\n"
	file := mustParse(t, source)

	if got := file.Transforms[0].Kind; got != access.KindMethod {
		t.Errorf("descriptor ()V: Kind = %v, want KindMethod", got)
	}
	if got := file.Transforms[1].Kind; got != access.KindField {
		t.Errorf("descriptor I: Kind = %v, want KindField", got)
	}
}

func TestParse_ScopeTokens(t *testing.T) {
	tests := []struct {
		token string
		want  ast.Scope
	}{
		{"a", ast.ScopeAll},
		{"all", ast.ScopeAll},
		{"b", ast.ScopeBuild},
		{"build", ast.ScopeBuild},
		{"r", ast.ScopeRuntime},
		{"runtime", ast.ScopeRuntime},
	}

	for _, tt := range tests {
		file := mustParse(t, "RAS v1 std\n!"+tt.token+" public 0 a/B\n")
		if got := file.Transforms[0].Scope; got != tt.want {
			t.Errorf("scope %q = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestParse_LineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want raserrors.Type
	}{
		{"too short", "!a 0 0 a", raserrors.TypeMalformedLine},
		{"bad prefix", "?a public 0 a/Bcdef", raserrors.TypeMalformedLine},
		{"five parts", "!a public 0 a/B extra", raserrors.TypeMalformedLine},
		{"unknown scope", "!x public 0 a/Bcd", raserrors.TypeUnknownScope},
		{"unknown origin", "!a bogus 0 a/Bcd", raserrors.TypeUnknownModifier},
		{"unknown target", "!a 0 bogus a/Bcd", raserrors.TypeUnknownModifier},
		{"misspelled target", "!a private public2 a/B", raserrors.TypeUnknownModifier},
		{"differing concrete pair", "!a private public a/B", raserrors.TypeIncompatibleAccesses},
		{"module origin", "!a module 0 a/Bcd", raserrors.TypeModuleUnsupported},
		{"open target", "!a 0 open a/Bcdef", raserrors.TypeModuleUnsupported},
		{"class modifier on field", "!a interface 0 a/B width I", raserrors.TypeKindMismatch},
		{"field modifier on method", "!a volatile 0 a/B run ()V", raserrors.TypeKindMismatch},
		{"method modifier on class", "!a synchronized 0 a/Bc", raserrors.TypeKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, "RAS v1 std\n"+tt.line+"\n")
			wantErrType(t, err, tt.want)
		})
	}
}

func TestParse_EqualConcretePairAllowed(t *testing.T) {
	// An identical origin/target pair is a pure verification line.
	file := mustParse(t, "RAS v1 std\n!a public public a/B\n")
	tr := file.Transforms[0]
	if tr.Origin != access.Public || tr.Target != access.Public {
		t.Errorf("transform = %v -> %v, want public -> public", tr.Origin, tr.Target)
	}
}

func TestParse_Reversed(t *testing.T) {
	p := New(Config{Reversed: true})
	file, err := p.Parse("test", strings.NewReader("RAS v1 std\n!a 0 final a/B\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	tr := file.Transforms[0]
	if tr.Origin != access.Final {
		t.Errorf("Origin = %v, want Final", tr.Origin)
	}
	if tr.Target != access.Negate {
		t.Errorf("Target = %v, want Negate", tr.Target)
	}
}

func TestParse_FirstErrorAborts(t *testing.T) {
	source := "RAS v1 std\n!a public 0 a/B\n!x public 0 a/B\n!a final 0 a/B\n"
	_, err := parse(t, source)
	wantErrType(t, err, raserrors.TypeUnknownScope)
}

func TestParse_CRLFAndTrailingWhitespace(t *testing.T) {
	source := "RAS v1 std\r\n!a public 0 a/B  \r\n"
	file := mustParse(t, source)
	if len(file.Transforms) != 1 {
		t.Fatalf("len(Transforms) = %d, want 1", len(file.Transforms))
	}
	if got := file.Transforms[0].Class; got != "a/B" {
		t.Errorf("Class = %q, want %q", got, "a/B")
	}
}

func TestParse_CommentsAndBlanksBetweenTransforms(t *testing.T) {
	source := "RAS v1 std\n# one\n!a public 0 a/B\n\n# two\n@b final 0 c/D\n"
	file := mustParse(t, source)
	if len(file.Transforms) != 2 {
		t.Fatalf("len(Transforms) = %d, want 2", len(file.Transforms))
	}
}

func TestParse_SymbolicModifierTokens(t *testing.T) {
	file := mustParse(t, "RAS v1 std\n!a ACC_PUBLIC 0 a/B\n")
	if got := file.Transforms[0].Origin; got != access.Public {
		t.Errorf("Origin = %v, want Public", got)
	}
}

func TestScanLine_TokenPreservation(t *testing.T) {
	dialect, ok := LookupDialect("std")
	if !ok {
		t.Fatal("std dialect not registered")
	}

	lt, err := ScanLine("!runtime ACC_PRIVATE acc_private a/B", dialect, ast.Location{Namespace: "test", Line: 1})
	if err != nil {
		t.Fatalf("ScanLine() error = %v, want nil", err)
	}

	if lt.RawPrefix != "!" {
		t.Errorf("RawPrefix = %q, want %q", lt.RawPrefix, "!")
	}
	if lt.ScopeToken != "runtime" {
		t.Errorf("ScopeToken = %q, want %q", lt.ScopeToken, "runtime")
	}
	if lt.OriginToken != "ACC_PRIVATE" {
		t.Errorf("OriginToken = %q, want %q", lt.OriginToken, "ACC_PRIVATE")
	}
	if lt.TargetToken != "acc_private" {
		t.Errorf("TargetToken = %q, want %q", lt.TargetToken, "acc_private")
	}
}

func TestRegisterDialect(t *testing.T) {
	d, err := RegisterDialect("testdialect", map[string]ast.Scope{"dev": ast.ScopeBuild})
	if err != nil {
		t.Fatalf("RegisterDialect() error = %v, want nil", err)
	}

	if scope, ok := d.ResolveScope("dev"); !ok || scope != ast.ScopeBuild {
		t.Errorf("ResolveScope(\"dev\") = %v, %v, want ScopeBuild, true", scope, ok)
	}
	// Standard scopes resolve in every dialect.
	if scope, ok := d.ResolveScope("runtime"); !ok || scope != ast.ScopeRuntime {
		t.Errorf("ResolveScope(\"runtime\") = %v, %v, want ScopeRuntime, true", scope, ok)
	}
}

func TestRegisterDialect_Errors(t *testing.T) {
	if _, err := RegisterDialect("", nil); err == nil {
		t.Error("RegisterDialect(\"\") error = nil, want error")
	}
	if _, err := RegisterDialect("badtoken", map[string]ast.Scope{"d3v": ast.ScopeBuild}); err == nil {
		t.Error("RegisterDialect with non-letter token error = nil, want error")
	}
	if _, err := RegisterDialect("shadow", map[string]ast.Scope{"all": ast.ScopeBuild}); err == nil {
		t.Error("RegisterDialect shadowing standard scope error = nil, want error")
	}
	if _, err := RegisterDialect("std", nil); err == nil {
		t.Error("RegisterDialect(\"std\") error = nil, want error")
	}
}
