// Package manager holds the per-entity RAS rule registry and the
// machinery that feeds it: file loading, namespace sources, and
// watch-based hot reload.
//
// A Registry accumulates monotonically: rules are created at load time,
// merged by identity (origin, target, kind) with source-set union and
// escalate-only failure policy, and never removed. Hot reload therefore
// builds a fresh registry and swaps it atomically rather than mutating
// the live one.
package manager
