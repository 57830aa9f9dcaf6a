package parser

import (
	"strings"

	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
)

// Header is the parsed first non-blank, non-comment line of a RAS
// source.
type Header struct {
	Version string
	Dialect *Dialect
}

// supportedVersions lists the format versions this implementation
// accepts. 1.1/v1.1 are accepted for forward compatibility: no v1.1
// grammar addition affects parsing.
var supportedVersions = map[string]bool{
	"1":    true,
	"v1":   true,
	"1.0":  true,
	"v1.0": true,
	"1.1":  true,
	"v1.1": true,
}

// ParseHeader validates a "RAS <version> <dialect>" header line.
func ParseHeader(line string, loc ast.Location) (*Header, *raserrors.Error) {
	if !strings.HasPrefix(line, "RAS") {
		return nil, raserrors.New(raserrors.TypeHeader, loc,
			"RAS header should begin with %q", "RAS")
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, raserrors.New(raserrors.TypeHeader, loc,
			"expected format %q", "RAS <format-version> <format-dialect>")
	}

	version, dialectName := parts[1], parts[2]
	if !supportedVersions[version] {
		return nil, raserrors.New(raserrors.TypeHeader, loc,
			"unsupported format version %q, supported: 1, v1, 1.0, v1.0, 1.1, v1.1", version)
	}

	dialect, ok := LookupDialect(dialectName)
	if !ok {
		return nil, raserrors.New(raserrors.TypeHeader, loc,
			"unsupported format dialect %q", dialectName)
	}

	return &Header{Version: version, Dialect: dialect}, nil
}
