// Package engine applies registered RAS rules to class models. The
// flag algebra lives in ApplyFlags; ApplyClass drives it over a class's
// own flags, its members, and (best-effort) the mirror entries of inner
// classes.
//
// The engine does not interpret the semantic consequences of a flag
// change; it only applies or rejects the mechanical edit per the rule's
// declared failure policy.
package engine
