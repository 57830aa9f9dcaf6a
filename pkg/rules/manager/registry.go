package manager

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"starloader-hq/ras/pkg/rasfmt/access"
	"starloader-hq/ras/pkg/rasfmt/ast"
	"starloader-hq/ras/pkg/rasfmt/parser"
)

// Rule is one registered access transform for one entity. Identity
// fields are immutable after creation; the failure policy and source
// set are metadata that only grow as duplicate transforms from other
// namespaces merge in. Policy reads are atomic so application can run
// concurrently with late loads.
type Rule struct {
	Origin access.Modifier
	Target access.Modifier
	Kind   access.Kind

	Class      string
	Member     string
	Descriptor string

	policy atomic.Int32

	srcMu   sync.Mutex
	sources []string
}

func newRule(t *ast.Transform, policy ast.FailPolicy, source string) *Rule {
	r := &Rule{
		Origin:     t.Origin,
		Target:     t.Target,
		Kind:       t.Kind,
		Class:      t.Class,
		Member:     t.Member,
		Descriptor: t.Descriptor,
		sources:    []string{source},
	}
	r.policy.Store(int32(policy))
	return r
}

// Policy returns the current effective failure policy.
func (r *Rule) Policy() ast.FailPolicy {
	return ast.FailPolicy(r.policy.Load())
}

// Sources returns a copy of the namespace labels that contributed the
// rule.
func (r *Rule) Sources() []string {
	r.srcMu.Lock()
	defer r.srcMu.Unlock()

	out := make([]string, len(r.sources))
	copy(out, r.sources)
	return out
}

// IsMember reports whether the rule targets a class member.
func (r *Rule) IsMember() bool {
	return r.Member != ""
}

// Describe renders the rule in "origin -> target" form for diagnostics.
func (r *Rule) Describe() string {
	return fmt.Sprintf("%s -> %s", r.Origin, r.Target)
}

func (r *Rule) identity() ast.Identity {
	return ast.Identity{Origin: r.Origin, Target: r.Target, Kind: r.Kind}
}

// merge folds a duplicate transform in: the policy is raised to the
// maximum of old and new (compare-and-raise, never lowered) and the
// namespace joins the source set.
func (r *Rule) merge(policy ast.FailPolicy, source string) {
	for {
		cur := r.policy.Load()
		if int32(policy) <= cur || r.policy.CompareAndSwap(cur, int32(policy)) {
			break
		}
	}

	r.srcMu.Lock()
	defer r.srcMu.Unlock()
	for _, s := range r.sources {
		if s == source {
			return
		}
	}
	r.sources = append(r.sources, source)
}

// MemberKey identifies a class member by name and descriptor.
type MemberKey struct {
	Name       string
	Descriptor string
}

// RuleSet is a point-in-time snapshot of the rules registered for one
// class: the self-transforms (applied to the class's own flags) and the
// member transforms keyed by name and descriptor. Slices preserve
// insertion order, which is also the application order.
type RuleSet struct {
	Self    []*Rule
	Members map[MemberKey][]*Rule
}

type classRules struct {
	self    []*Rule
	members map[MemberKey][]*Rule
}

// Registry maps class internal names to their rule sets. The active
// scope and force-silent flag are fixed at construction; loads from
// multiple namespaces may run concurrently with each other and with
// readers, and commute because merging is escalate-only.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*classRules

	scope       ast.Scope
	forceSilent bool
	logger      *slog.Logger
}

// NewRegistry creates a registry with the given activation scope. The
// scope selects which transforms are stored ("all"-scoped transforms
// are always stored) and may not be ScopeAll itself. With forceSilent
// set, every registered policy is downgraded to FailSoft regardless of
// the line prefix.
func NewRegistry(activeScope ast.Scope, forceSilent bool, logger *slog.Logger) (*Registry, error) {
	if activeScope == ast.ScopeAll {
		return nil, &RegistryError{Operation: "new", Message: "active scope may not be 'all'"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		classes:     make(map[string]*classRules),
		scope:       activeScope,
		forceSilent: forceSilent,
		logger:      logger.With("component", "rules.registry"),
	}, nil
}

// ActiveScope returns the scope the registry was constructed with.
func (r *Registry) ActiveScope() ast.Scope {
	return r.scope
}

// ForceSilent reports whether all policies are downgraded to soft.
func (r *Registry) ForceSilent() bool {
	return r.forceSilent
}

// Load parses one RAS source under the given namespace label and
// registers its in-scope transforms. Parsing is atomic: on any parse
// error nothing from the source is registered. With reversed set the
// inverse transform set is derived (origin/target swapped) before
// registration.
func (r *Registry) Load(namespace string, src io.Reader, reversed bool) error {
	p := parser.New(parser.Config{Reversed: reversed, Logger: r.logger})
	file, err := p.Parse(namespace, src)
	if err != nil {
		return err
	}

	registered := 0
	r.mu.Lock()
	for _, t := range file.Transforms {
		// Out-of-scope lines were parsed for early error detection but
		// are not stored.
		if t.Scope != ast.ScopeAll && t.Scope != r.scope {
			continue
		}
		r.register(t, namespace)
		registered++
	}
	r.mu.Unlock()

	r.logger.Debug("loaded RAS namespace",
		"namespace", namespace,
		"reversed", reversed,
		"transforms", len(file.Transforms),
		"registered", registered,
	)
	return nil
}

// register merges one transform in. Caller holds the write lock.
func (r *Registry) register(t *ast.Transform, namespace string) {
	policy := t.Policy
	if r.forceSilent {
		policy = ast.FailSoft
	}

	cr := r.classes[t.Class]
	if cr == nil {
		cr = &classRules{members: make(map[MemberKey][]*Rule)}
		r.classes[t.Class] = cr
	}

	if t.IsMember() {
		key := MemberKey{Name: t.Member, Descriptor: t.Descriptor}
		cr.members[key] = mergeInto(cr.members[key], t, policy, namespace)
	} else {
		cr.self = mergeInto(cr.self, t, policy, namespace)
	}
}

// mergeInto looks the transform up by identity and either folds it into
// the existing rule or appends a new one, preserving insertion order.
func mergeInto(rules []*Rule, t *ast.Transform, policy ast.FailPolicy, namespace string) []*Rule {
	id := t.Identity()
	for _, rule := range rules {
		if rule.identity() == id {
			rule.merge(policy, namespace)
			return rules
		}
	}
	return append(rules, newRule(t, policy, namespace))
}

// IsTarget reports whether the class is subject to one or more
// transforms. It is an O(1) pre-filter for large corpora of classes,
// most of which have none.
func (r *Registry) IsTarget(internalName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.classes[internalName]
	return ok
}

// RulesFor returns a snapshot of the rules for one class. The snapshot
// is stable against concurrent loads; rule policies read through it are
// always current or newer (policies only escalate).
func (r *Registry) RulesFor(internalName string) (*RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cr, ok := r.classes[internalName]
	if !ok {
		return nil, false
	}

	set := &RuleSet{
		Self:    make([]*Rule, len(cr.self)),
		Members: make(map[MemberKey][]*Rule, len(cr.members)),
	}
	copy(set.Self, cr.self)
	for key, rules := range cr.members {
		cp := make([]*Rule, len(rules))
		copy(cp, rules)
		set.Members[key] = cp
	}
	return set, true
}

// TargetCount returns the number of classes with at least one rule.
func (r *Registry) TargetCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.classes)
}

// TargetNames returns the internal names of all target classes, in no
// particular order.
func (r *Registry) TargetNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	return names
}
