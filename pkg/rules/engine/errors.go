package engine

import (
	"fmt"

	"starloader-hq/ras/pkg/rasfmt/access"
	"starloader-hq/ras/pkg/rules/manager"
)

// OriginMismatch reports that a transform's origin precondition did not
// hold against the entity's current flags.
type OriginMismatch struct {
	// Expected is the origin modifier the transform required.
	Expected access.Modifier

	// Actual is the entity's current flag set.
	Actual int32

	// Kind is the entity kind, used to render Actual.
	Kind access.Kind
}

// Error implements the error interface.
func (e *OriginMismatch) Error() string {
	return fmt.Sprintf("origin mismatch: expected %q but current access is %q",
		e.Expected, access.Stringify(e.Actual, e.Kind))
}

// TransformFailure reports that a hard-failing transform could not be
// applied. It aborts the whole entity's batch and carries the rendered
// transform plus the full set of contributing namespaces for diagnosis.
type TransformFailure struct {
	// Class is the internal name of the entity being transformed.
	Class string

	// Member and Descriptor identify the member, empty for class-level
	// transforms.
	Member     string
	Descriptor string

	// Rule is the rule that failed.
	Rule *manager.Rule

	// Cause is the underlying mismatch.
	Cause *OriginMismatch
}

// Error implements the error interface.
func (e *TransformFailure) Error() string {
	entity := fmt.Sprintf("class %q", e.Class)
	if e.Member != "" {
		if e.Descriptor != "" && e.Descriptor[0] == '(' {
			entity = fmt.Sprintf("method %q", e.Class+"."+e.Member+e.Descriptor)
		} else {
			entity = fmt.Sprintf("field %q", e.Class+"."+e.Member+":"+e.Descriptor)
		}
	}
	return fmt.Sprintf("RAS transform %q from namespaces %v failed for %s: %v",
		e.Rule.Describe(), e.Rule.Sources(), entity, e.Cause)
}

// Unwrap supports errors.Is/errors.As chains.
func (e *TransformFailure) Unwrap() error {
	return e.Cause
}
