package ast

import "fmt"

// Location identifies where in a RAS source a construct was read from.
// Namespace is the caller-supplied label for the loaded file; Line is
// 1-indexed.
type Location struct {
	Namespace string
	Line      int
}

// IsValid reports whether the location carries usable information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// String returns the location in "namespace:line" form.
func (l Location) String() string {
	if l.Namespace == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Namespace, l.Line)
}
