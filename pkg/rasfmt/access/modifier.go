package access

import (
	"fmt"
	"strings"
)

// Kind classifies which entity a modifier may be applied to.
type Kind uint8

const (
	// KindAny places no restriction; the effective kind is inferred
	// from context (the line shape and member descriptor).
	KindAny Kind = iota

	// KindClass restricts a modifier to class records.
	KindClass

	// KindMethod restricts a modifier to method records.
	KindMethod

	// KindField restricts a modifier to field records.
	KindField

	// KindModule restricts a modifier to module-info records. Module
	// transforms are rejected by the parser; the kind exists so the
	// rejection is expressible.
	KindModule
)

// String returns a lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Compatible reports whether two kinds can describe the same entity.
func (k Kind) Compatible(other Kind) bool {
	return k == KindAny || other == KindAny || k == other
}

// Combine returns the more specific of two compatible kinds.
// The second return is false when the kinds conflict.
func (k Kind) Combine(other Kind) (Kind, bool) {
	if !k.Compatible(other) {
		return KindAny, false
	}
	if k == KindAny {
		return other, true
	}
	return k, true
}

// Modifier is a named access/property bit, or the Negate sentinel.
type Modifier uint8

const (
	// Negate is the wildcard token "0": no specific modifier. Paired
	// with a concrete modifier on the other side of a transform it
	// means add (origin) or remove (target).
	Negate Modifier = iota

	Public
	Private
	Protected
	Static
	Final
	Super
	Synchronized
	Volatile
	Transient
	Varargs
	Native
	Interface
	Abstract
	StrictFP
	Synthetic
	Annotation
	Enum
	Module
	Open
	Record
	Deprecated
)

// VisibilityMask covers the three mutually exclusive visibility bits.
// At most one of them may be set on a well-formed entity.
const VisibilityMask int32 = 0x0001 | 0x0002 | 0x0004

type modifierInfo struct {
	name string
	bit  int32
	kind Kind
}

// Bit values follow the JVM class-file format. Record and Deprecated
// use the pseudo-access bits commonly assigned by bytecode libraries
// since the class-file format stores them as attributes.
var modifierTable = map[Modifier]modifierInfo{
	Negate:       {name: "0", bit: 0, kind: KindAny},
	Public:       {name: "public", bit: 0x0001, kind: KindAny},
	Private:      {name: "private", bit: 0x0002, kind: KindAny},
	Protected:    {name: "protected", bit: 0x0004, kind: KindAny},
	Static:       {name: "static", bit: 0x0008, kind: KindAny},
	Final:        {name: "final", bit: 0x0010, kind: KindAny},
	Super:        {name: "super", bit: 0x0020, kind: KindClass},
	Synchronized: {name: "synchronized", bit: 0x0020, kind: KindMethod},
	Volatile:     {name: "volatile", bit: 0x0040, kind: KindField},
	Transient:    {name: "transient", bit: 0x0080, kind: KindField},
	Varargs:      {name: "varargs", bit: 0x0080, kind: KindMethod},
	Native:       {name: "native", bit: 0x0100, kind: KindMethod},
	Interface:    {name: "interface", bit: 0x0200, kind: KindClass},
	Abstract:     {name: "abstract", bit: 0x0400, kind: KindAny},
	StrictFP:     {name: "strictfp", bit: 0x0800, kind: KindMethod},
	Synthetic:    {name: "synthetic", bit: 0x1000, kind: KindAny},
	Annotation:   {name: "annotation", bit: 0x2000, kind: KindClass},
	Enum:         {name: "enum", bit: 0x4000, kind: KindAny},
	Module:       {name: "module", bit: 0x8000, kind: KindModule},
	Open:         {name: "open", bit: 0x0020, kind: KindModule},
	Record:       {name: "record", bit: 0x10000, kind: KindClass},
	Deprecated:   {name: "deprecated", bit: 0x20000, kind: KindAny},
}

// stringifyOrder is the canonical rendering order for Stringify.
var stringifyOrder = []Modifier{
	Public, Private, Protected, Static, Final, Super, Synchronized,
	Volatile, Transient, Varargs, Native, Interface, Abstract,
	StrictFP, Synthetic, Annotation, Enum, Module, Open, Record,
	Deprecated,
}

// tokenIndex maps lower-cased tokens and their symbolic "acc_" aliases
// to modifiers.
var tokenIndex = func() map[string]Modifier {
	idx := make(map[string]Modifier, 2*len(modifierTable))
	for m, info := range modifierTable {
		idx[info.name] = m
		if m != Negate {
			idx["acc_"+info.name] = m
		}
	}
	return idx
}()

// ParseToken resolves a modifier token case-insensitively. Both the
// keyword spelling ("public") and the symbolic constant spelling
// ("acc_public") are accepted; "0" resolves to Negate.
func ParseToken(text string) (Modifier, error) {
	m, ok := tokenIndex[strings.ToLower(text)]
	if !ok {
		return Negate, fmt.Errorf("unknown modifier %q", text)
	}
	return m, nil
}

// String returns the canonical token for the modifier.
func (m Modifier) String() string {
	if info, ok := modifierTable[m]; ok {
		return info.name
	}
	return "unknown"
}

// Bit returns the class-file bit value of the modifier. Negate has bit
// value zero.
func (m Modifier) Bit() int32 {
	return modifierTable[m].bit
}

// Kind returns the entity kind the modifier may target. Negate maps to
// KindAny.
func (m Modifier) Kind() Kind {
	return modifierTable[m].kind
}

// IsVisibility reports whether the modifier is one of the mutually
// exclusive visibility modifiers.
func (m Modifier) IsVisibility() bool {
	return m == Public || m == Private || m == Protected
}

// Stringify renders a flag set back to tokens for diagnostics. Bits
// shared between kinds (super/synchronized, transient/varargs) are
// rendered through the token matching the given kind; for KindAny the
// first token in canonical order wins. An empty flag set renders as
// the Negate token.
func Stringify(flags int32, kind Kind) string {
	var tokens []string
	seen := int32(0)
	for _, m := range stringifyOrder {
		info := modifierTable[m]
		if flags&info.bit == 0 || seen&info.bit != 0 {
			continue
		}
		if !kind.Compatible(info.kind) {
			continue
		}
		tokens = append(tokens, info.name)
		seen |= info.bit
	}
	if len(tokens) == 0 {
		return Negate.String()
	}
	return strings.Join(tokens, " ")
}
