package errors

import (
	"fmt"
	"strings"

	"starloader-hq/ras/pkg/rasfmt/ast"
)

// Type categorizes an error encountered while reading a RAS source.
// Every Type is fatal to the load call that produced it: no transform
// from the offending file is registered.
type Type string

const (
	// TypeHeader covers a missing or malformed RAS header, or an
	// unsupported format version or dialect.
	TypeHeader Type = "header"

	// TypeMalformedLine covers lines that are too short, carry an
	// invalid prefix, or do not split into 4 or 6 parts.
	TypeMalformedLine Type = "malformed_line"

	// TypeUnknownScope covers scope tokens outside the dialect's set.
	TypeUnknownScope Type = "unknown_scope"

	// TypeUnknownModifier covers unresolvable origin/target tokens.
	TypeUnknownModifier Type = "unknown_modifier"

	// TypeKindMismatch covers modifiers applied to an entity kind they
	// cannot target.
	TypeKindMismatch Type = "kind_mismatch"

	// TypeModuleUnsupported covers module-targeted modifiers, which
	// RAS v1 cannot change.
	TypeModuleUnsupported Type = "module_unsupported"

	// TypeIncompatibleAccesses covers origin/target pairs that are
	// both concrete but not identical.
	TypeIncompatibleAccesses Type = "incompatible_accesses"

	// TypeIO covers failures of the underlying reader.
	TypeIO Type = "io"
)

// Error is a structured RAS parse error with location information.
type Error struct {
	// Type is the error category.
	Type Type

	// Message describes the error.
	Message string

	// Location is where in the source the error was detected.
	Location ast.Location

	// Suggestion is an optional hint for fixing the file.
	Suggestion string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Type, e.Message)
	if e.Location.IsValid() {
		fmt.Fprintf(&sb, " (%s)", e.Location)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "; suggestion: %s", e.Suggestion)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap supports errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given type at the given location.
func New(t Type, loc ast.Location, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Location: loc}
}

// WithSuggestion returns the error with a fix hint attached.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// List accumulates multiple errors, used where processing continues
// past individual failures (directory loads, rewrite passes).
type List struct {
	Errors []*Error
}

// Add appends an error to the list.
func (l *List) Add(err *Error) {
	l.Errors = append(l.Errors, err)
}

// HasErrors reports whether the list is non-empty.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error implements the error interface.
func (l *List) Error() string {
	if !l.HasErrors() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):", len(l.Errors))
	for _, err := range l.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// ToError returns nil when the list is empty, otherwise the list.
func (l *List) ToError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
