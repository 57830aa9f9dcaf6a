// Package rasfmt is the umbrella for the reversible access setter
// (RAS) file format: the grammar and tokenizer (parser), the
// access-flag codec (access), the parse value types (ast), structured
// parse errors (errors), and the identifier-remapping re-emitter
// (rewrite).
//
// A RAS file declares reversible edits to the access modifiers of
// compiled program units. The same file, parsed with Reversed set,
// yields the inverse transform set that restores the pre-transform
// state.
package rasfmt
