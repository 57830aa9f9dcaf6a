package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"starloader-hq/ras/pkg/rasfmt/access"
	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
)

// MinTransformLineLength is the smallest possible well-formed transform
// line, e.g. "!b 0 0 a/B".
const MinTransformLineLength = 9

// LineTokens is the tokenized and validated form of a single transform
// line. It keeps the tokens exactly as written so the rewrite emitter
// can re-serialize them without loss.
type LineTokens struct {
	// RawPrefix is the prefix character as written, or " " when the
	// lenient path synthesized one.
	RawPrefix string

	// Synthesized reports that the line had no prefix and one was
	// synthesized via the lenient compatibility path.
	Synthesized bool

	// Policy is the failure policy selected by the prefix.
	Policy ast.FailPolicy

	// ScopeToken, OriginToken, and TargetToken are the tokens as
	// written; Scope, Origin, and Target their resolved values.
	ScopeToken  string
	Scope       ast.Scope
	OriginToken string
	Origin      access.Modifier
	TargetToken string
	Target      access.Modifier

	// Kind is the validated entity kind of the transform.
	Kind access.Kind

	// Class is the internal class name; Member and Descriptor are set
	// for 6-part lines only.
	Class      string
	Member     string
	Descriptor string
}

// IsMember reports whether the line targets a class member.
func (lt *LineTokens) IsMember() bool {
	return lt.Member != ""
}

// ScanLine tokenizes and validates one non-blank, non-comment transform
// line. The returned error is fatal to a load; the rewrite emitter
// instead logs it and drops the line.
func ScanLine(line string, dialect *Dialect, loc ast.Location) (*LineTokens, *raserrors.Error) {
	if utf8.RuneCountInString(line) < MinTransformLineLength {
		return nil, raserrors.New(raserrors.TypeMalformedLine, loc,
			"the smallest possible line length is %d characters, but got %d",
			MinTransformLineLength, utf8.RuneCountInString(line))
	}

	lt := &LineTokens{}
	prefix, size := utf8.DecodeRuneInString(line)
	rest := line[size:]

	switch {
	case unicode.IsSpace(prefix):
		// The spec allows only ' ', but parsing stays lenient here.
		lt.RawPrefix = string(prefix)
		lt.Policy = ast.FailWarn
	case prefix == '@':
		lt.RawPrefix = "@"
		lt.Policy = ast.FailSoft
	case prefix == '!':
		lt.RawPrefix = "!"
		lt.Policy = ast.FailHard
	default:
		// Lenient path: a line beginning directly with a scope token
		// gets a synthesized space prefix and defaults to warn.
		token := leadingLetters(line)
		if token != "" && len(token) < len(line) && isSpaceByte(line[len(token)]) {
			if _, ok := dialect.ResolveScope(token); ok {
				lt.RawPrefix = " "
				lt.Synthesized = true
				lt.Policy = ast.FailWarn
				rest = line
				break
			}
		}
		return nil, raserrors.New(raserrors.TypeMalformedLine, loc,
			"invalid prefix %q", string(prefix)).
			WithSuggestion("transform lines start with ' ', '@' or '!'")
	}

	parts := strings.Fields(rest)
	if len(parts) != 4 && len(parts) != 6 {
		return nil, raserrors.New(raserrors.TypeMalformedLine, loc,
			"expected %q or %q (got %d parts, want 4 or 6)",
			"<prefix>scope <origin> <target> <class>",
			"<prefix>scope <origin> <target> <class> <member> <descriptor>",
			len(parts))
	}

	lt.ScopeToken = parts[0]
	scope, ok := dialect.ResolveScope(lt.ScopeToken)
	if !ok {
		return nil, raserrors.New(raserrors.TypeUnknownScope, loc,
			"unknown scope %q", lt.ScopeToken).
			WithSuggestion("make sure you use the right dialect")
	}
	lt.Scope = scope

	lt.OriginToken, lt.TargetToken = parts[1], parts[2]
	origin, err := access.ParseToken(lt.OriginToken)
	if err != nil {
		return nil, raserrors.New(raserrors.TypeUnknownModifier, loc,
			"unknown origin modifier %q", lt.OriginToken)
	}
	target, err := access.ParseToken(lt.TargetToken)
	if err != nil {
		return nil, raserrors.New(raserrors.TypeUnknownModifier, loc,
			"unknown target modifier %q", lt.TargetToken)
	}
	lt.Origin, lt.Target = origin, target

	// A transform is only ever a toggle against absence or a
	// same-modifier assertion; any other concrete pair is rejected.
	if origin != access.Negate && target != access.Negate && origin != target {
		return nil, raserrors.New(raserrors.TypeIncompatibleAccesses, loc,
			"incompatible accesses %q and %q", lt.OriginToken, lt.TargetToken)
	}

	if origin.Kind() == access.KindModule || target.Kind() == access.KindModule {
		return nil, raserrors.New(raserrors.TypeModuleUnsupported, loc,
			"this access can only be applied on module-info entries, which cannot be changed by RAS v1")
	}

	lt.Class = parts[3]
	if len(parts) == 6 {
		lt.Member, lt.Descriptor = parts[4], parts[5]
		memberKind := access.KindField
		if lt.Descriptor[0] == '(' {
			memberKind = access.KindMethod
		}
		if !origin.Kind().Compatible(memberKind) || !target.Kind().Compatible(memberKind) {
			return nil, raserrors.New(raserrors.TypeKindMismatch, loc,
				"this access cannot be applied on %ss", memberKind)
		}
		lt.Kind = memberKind
	} else {
		if !origin.Kind().Compatible(access.KindClass) || !target.Kind().Compatible(access.KindClass) {
			return nil, raserrors.New(raserrors.TypeKindMismatch, loc,
				"this access cannot be applied on classes")
		}
		lt.Kind, _ = origin.Kind().Combine(target.Kind())
	}

	return lt, nil
}

func leadingLetters(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return s[:i]
		}
	}
	return s
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}
