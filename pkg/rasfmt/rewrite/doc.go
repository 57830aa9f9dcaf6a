// Package rewrite re-emits a RAS source with its identifiers
// substituted through an injected name resolver. It is used when the
// underlying classes and members are renamed by an external remapping
// pass and the RAS file has to follow them.
//
// Rewriting never applies transforms and never filters by scope: the
// prefix, scope, origin, and target tokens are re-emitted exactly as
// written, comments and blank lines are echoed verbatim, and only the
// class/member/descriptor identifiers change. Lines that fail
// validation are logged and dropped; rewriting is a best-effort,
// non-authoritative pass and does not gate application.
package rewrite
