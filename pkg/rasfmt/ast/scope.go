package ast

// Scope declares when a transform is active. Transforms outside the
// registry's active scope are parsed for validation but never stored.
type Scope uint8

const (
	// ScopeAll marks a transform that applies in every environment.
	ScopeAll Scope = iota

	// ScopeBuild marks a transform that applies at build/compile time
	// only (including development environments).
	ScopeBuild

	// ScopeRuntime marks a transform that applies at runtime only.
	ScopeRuntime
)

// String returns the long-form scope token.
func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeBuild:
		return "build"
	case ScopeRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// FailPolicy is the severity assigned to a transform's inability to
// apply. The ordering is total: Soft < Warn < Hard. Policies only ever
// escalate when duplicate transforms are merged.
type FailPolicy uint8

const (
	// FailSoft applies best-effort and never reports a mismatch.
	FailSoft FailPolicy = iota

	// FailWarn applies best-effort and logs on mismatch.
	FailWarn

	// FailHard aborts the whole entity batch on mismatch.
	FailHard
)

// String returns a human-readable policy name.
func (p FailPolicy) String() string {
	switch p {
	case FailSoft:
		return "soft"
	case FailWarn:
		return "warn"
	case FailHard:
		return "hard"
	default:
		return "unknown"
	}
}

// Prefix returns the grammar prefix character for the policy.
func (p FailPolicy) Prefix() rune {
	switch p {
	case FailSoft:
		return '@'
	case FailHard:
		return '!'
	default:
		return ' '
	}
}

// Max returns the more severe of the two policies.
func (p FailPolicy) Max(other FailPolicy) FailPolicy {
	if other > p {
		return other
	}
	return p
}
