package engine

import (
	"log/slog"

	"starloader-hq/ras/pkg/rasfmt/access"
	"starloader-hq/ras/pkg/rasfmt/ast"
	"starloader-hq/ras/pkg/rules/manager"
	"starloader-hq/ras/pkg/telemetry/metrics"
)

// ApplicationRecord describes one rule application attempt for the
// audit trail.
type ApplicationRecord struct {
	Class      string
	Member     string
	Descriptor string

	// Transform is the rule rendered in "origin -> target" form.
	Transform string

	// Sources lists the namespaces that contributed the rule.
	Sources []string

	// Outcome is one of "applied", "skipped" or "failed".
	Outcome string

	Before int32
	After  int32
}

// Auditor receives a record for every rule application attempt.
// Implementations must be safe for concurrent use.
type Auditor interface {
	RecordApplication(rec ApplicationRecord)
}

// Config carries the optional engine collaborators.
type Config struct {
	// Metrics receives per-application counters. Nil disables metrics.
	Metrics *metrics.TransformMetrics

	// Auditor receives application records. Nil disables auditing.
	Auditor Auditor
}

// Engine applies registered access transforms to class models.
type Engine struct {
	registry *manager.Registry
	logger   *slog.Logger
	metrics  *metrics.TransformMetrics
	auditor  Auditor
}

// New creates an engine over the given registry. cfg may be nil.
func New(registry *manager.Registry, logger *slog.Logger, cfg *Config) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		registry: registry,
		logger:   logger.With("component", "rules.engine"),
	}
	if cfg != nil {
		e.metrics = cfg.Metrics
		e.auditor = cfg.Auditor
	}
	return e
}

// ApplyFlags computes the flag set produced by applying one transform.
// A nil mismatch means the returned flags are the result; on mismatch
// the input flags are returned unchanged.
//
// The algebra follows the transform's shape:
//
//   - origin "0": the target bit is added. When the target is a
//     visibility modifier the visibility group is cleared first, so the
//     entity never ends up with two visibility bits set.
//   - target "0": the origin bit is required and removed; a missing
//     origin bit is a mismatch.
//   - origin == target: a pure verification, the origin bit must be
//     set and the flags are unchanged.
func ApplyFlags(flags int32, origin, target access.Modifier, kind access.Kind) (int32, *OriginMismatch) {
	switch {
	case origin == access.Negate && target == access.Negate:
		// "0 -> 0" survives parsing only via the equal-pair rule and is
		// a no-op.
		return flags, nil

	case origin == access.Negate:
		out := flags
		if target.IsVisibility() {
			out &^= access.VisibilityMask
		}
		return out | target.Bit(), nil

	case target == access.Negate:
		bit := origin.Bit()
		if flags&bit == 0 {
			return flags, &OriginMismatch{Expected: origin, Actual: flags, Kind: kind}
		}
		return flags &^ bit, nil

	default:
		// Equal origin and target: verify without mutating.
		if flags&origin.Bit() == 0 {
			return flags, &OriginMismatch{Expected: origin, Actual: flags, Kind: kind}
		}
		return flags, nil
	}
}

// ApplyClass applies every matching rule to the class, its methods and
// fields, then mirrors class-level transforms onto matching inner
// class entries. Mirroring runs even when the class carries no rules
// of its own: the inner-class table duplicates the access flags of
// other classes, and those may be targets regardless of the enclosing
// class. A hard-failing mismatch aborts immediately with a
// *TransformFailure; warn failures are logged and skipped; soft
// failures are skipped silently.
func (e *Engine) ApplyClass(node ClassModel) error {
	if set, ok := e.registry.RulesFor(node.Name()); ok {
		if err := e.applyRules(set.Self, node, node.Name(), "", "", access.KindClass); err != nil {
			return err
		}

		for _, m := range node.Methods() {
			rules := set.Members[manager.MemberKey{Name: m.Name(), Descriptor: m.Descriptor()}]
			if err := e.applyRules(rules, m, node.Name(), m.Name(), m.Descriptor(), access.KindMethod); err != nil {
				return err
			}
		}
		for _, f := range node.Fields() {
			rules := set.Members[manager.MemberKey{Name: f.Name(), Descriptor: f.Descriptor()}]
			if err := e.applyRules(rules, f, node.Name(), f.Name(), f.Descriptor(), access.KindField); err != nil {
				return err
			}
		}
	}

	e.mirrorInnerClasses(node)
	return nil
}

// applyRules runs one entity's rules in registration order. kind names
// the entity for metrics and flag rendering; member rules may carry a
// narrower kind from the descriptor, which is what gets applied.
func (e *Engine) applyRules(rules []*manager.Rule, holder AccessHolder, class, member, descriptor string, kind access.Kind) error {
	for _, rule := range rules {
		before := holder.AccessFlags()
		after, mismatch := ApplyFlags(before, rule.Origin, rule.Target, rule.Kind)

		if mismatch == nil {
			holder.SetAccessFlags(after)
			e.record(rule, class, member, descriptor, "applied", before, after)
			e.countApplication(kind, "applied")
			continue
		}

		policy := rule.Policy()
		e.record(rule, class, member, descriptor, outcomeFor(policy), before, before)
		e.countApplication(kind, outcomeFor(policy))
		e.countMismatch(policy)

		switch policy {
		case ast.FailHard:
			return &TransformFailure{
				Class:      class,
				Member:     member,
				Descriptor: descriptor,
				Rule:       rule,
				Cause:      mismatch,
			}
		case ast.FailWarn:
			e.logger.Warn("access transform skipped",
				"class", class,
				"member", member,
				"descriptor", descriptor,
				"transform", rule.Describe(),
				"sources", rule.Sources(),
				"error", mismatch.Error(),
			)
		}
		// FailSoft: skip silently.
	}
	return nil
}

// mirrorInnerClasses re-applies the class's self-transforms to inner
// class entries whose name matches a target class, keeping the
// InnerClasses attribute consistent with the transformed class flags.
// Mirroring is best effort: mismatches never fail the batch.
func (e *Engine) mirrorInnerClasses(node ClassModel) {
	for _, inner := range node.InnerClasses() {
		set, ok := e.registry.RulesFor(inner.Name())
		if !ok {
			continue
		}
		for _, rule := range set.Self {
			after, mismatch := ApplyFlags(inner.AccessFlags(), rule.Origin, rule.Target, rule.Kind)
			if mismatch == nil {
				inner.SetAccessFlags(after)
			}
		}
	}
}

func (e *Engine) record(rule *manager.Rule, class, member, descriptor, outcome string, before, after int32) {
	if e.auditor == nil {
		return
	}
	e.auditor.RecordApplication(ApplicationRecord{
		Class:      class,
		Member:     member,
		Descriptor: descriptor,
		Transform:  rule.Describe(),
		Sources:    rule.Sources(),
		Outcome:    outcome,
		Before:     before,
		After:      after,
	})
}

func (e *Engine) countApplication(kind access.Kind, outcome string) {
	if e.metrics != nil {
		e.metrics.RecordApplication(kind.String(), outcome)
	}
}

func (e *Engine) countMismatch(policy ast.FailPolicy) {
	if e.metrics != nil {
		e.metrics.RecordMismatch(policy.String())
	}
}

func outcomeFor(policy ast.FailPolicy) string {
	if policy == ast.FailHard {
		return "failed"
	}
	return "skipped"
}
