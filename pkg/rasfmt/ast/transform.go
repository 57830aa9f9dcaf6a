package ast

import (
	"fmt"

	"starloader-hq/ras/pkg/rasfmt/access"
)

// Transform is a single validated access transform read from a RAS file.
//
// Origin and Target are each either a concrete modifier or
// access.Negate. The parser guarantees that when both are concrete they
// are identical (a verification-only transform); every other transform
// is a toggle between absence and a single modifier.
type Transform struct {
	// Origin is the modifier expected on the entity before the
	// transform runs, or access.Negate for "no precondition".
	Origin access.Modifier

	// Target is the modifier the entity carries after the transform,
	// or access.Negate for "remove Origin".
	Target access.Modifier

	// Kind is the entity kind the transform applies to. For member
	// lines this is the descriptor-disambiguated kind (method or
	// field); for class lines it is the intersection of the origin and
	// target token kinds.
	Kind access.Kind

	// Policy is the failure severity selected by the line prefix,
	// possibly downgraded to FailSoft by a force-silent registry.
	Policy FailPolicy

	// Scope declares when the transform is active.
	Scope Scope

	// Class is the internal name of the owning class, e.g.
	// "org/example/Outer$Inner".
	Class string

	// Member and Descriptor are set for member-level transforms and
	// empty for class-level ones.
	Member     string
	Descriptor string

	// Location records where the transform was read from.
	Location Location
}

// IsMember reports whether the transform targets a class member rather
// than the class's own access flags.
func (t *Transform) IsMember() bool {
	return t.Member != ""
}

// Identity returns the merge identity of the transform. Two transforms
// with equal identities targeting the same entity are folded into one
// rule with unioned sources and escalated policy.
func (t *Transform) Identity() Identity {
	return Identity{Origin: t.Origin, Target: t.Target, Kind: t.Kind}
}

// Describe renders the transform in "origin -> target" form for
// diagnostics.
func (t *Transform) Describe() string {
	return fmt.Sprintf("%s -> %s", t.Origin, t.Target)
}

// Identity is the equality key of a transform: origin, target, and
// entity kind. Sources and policy are metadata and take no part in it.
type Identity struct {
	Origin access.Modifier
	Target access.Modifier
	Kind   access.Kind
}

// File is the parse product of one RAS source: its header fields and
// the validated transforms in file order. Transforms outside the active
// scope of a registry are still present here; filtering happens at
// registration time.
type File struct {
	Namespace  string
	Version    string
	Dialect    string
	Transforms []*Transform
}
