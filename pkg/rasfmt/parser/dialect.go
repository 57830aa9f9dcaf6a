package parser

import (
	"fmt"
	"sync"

	"starloader-hq/ras/pkg/rasfmt/ast"
)

// Dialect names the scope vocabulary of a RAS source. The baseline
// grammar defines "std" and "starrian", both carrying only the
// standard scopes; other dialects may register additional scope names
// restricted to ASCII letters.
type Dialect struct {
	name        string
	extraScopes map[string]ast.Scope
}

// standard scope tokens shared by every dialect.
var standardScopes = map[string]ast.Scope{
	"a":       ast.ScopeAll,
	"all":     ast.ScopeAll,
	"b":       ast.ScopeBuild,
	"build":   ast.ScopeBuild,
	"r":       ast.ScopeRuntime,
	"runtime": ast.ScopeRuntime,
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]*Dialect{
		"std":      {name: "std"},
		"starrian": {name: "starrian"},
	}
)

// LookupDialect resolves a dialect by name.
func LookupDialect(name string) (*Dialect, bool) {
	dialectMu.RLock()
	defer dialectMu.RUnlock()

	d, ok := dialects[name]
	return d, ok
}

// RegisterDialect registers a dialect with additional scope tokens.
// Scope tokens must be non-empty and consist of ASCII letters only.
// Registering a name twice or shadowing a standard scope is an error.
func RegisterDialect(name string, extraScopes map[string]ast.Scope) (*Dialect, error) {
	if name == "" {
		return nil, fmt.Errorf("dialect name cannot be empty")
	}
	for token := range extraScopes {
		if !isASCIILetters(token) {
			return nil, fmt.Errorf("dialect scope token %q must be ASCII letters", token)
		}
		if _, clash := standardScopes[token]; clash {
			return nil, fmt.Errorf("dialect scope token %q shadows a standard scope", token)
		}
	}

	dialectMu.Lock()
	defer dialectMu.Unlock()

	if _, exists := dialects[name]; exists {
		return nil, fmt.Errorf("dialect %q already registered", name)
	}
	d := &Dialect{name: name, extraScopes: extraScopes}
	dialects[name] = d
	return d, nil
}

// Name returns the dialect name as it appears in the header.
func (d *Dialect) Name() string {
	return d.name
}

// ResolveScope resolves a scope token within the dialect.
func (d *Dialect) ResolveScope(token string) (ast.Scope, bool) {
	if s, ok := standardScopes[token]; ok {
		return s, true
	}
	s, ok := d.extraScopes[token]
	return s, ok
}

func isASCIILetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
