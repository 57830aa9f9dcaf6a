// Package ast defines the value types produced by parsing a reversible
// access setter (RAS) file: transforms, scopes, failure policies, and
// source locations.
//
// The types in this package are plain data. Parsing lives in
// pkg/rasfmt/parser, flag arithmetic in pkg/rasfmt/access, and rule
// storage/merging in pkg/rules/manager.
package ast
