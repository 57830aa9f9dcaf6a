package rasfmt

import (
	"bufio"
	"io"
	"strings"

	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
	"starloader-hq/ras/pkg/rasfmt/parser"
)

// Parse reads a RAS source with default parser settings.
func Parse(namespace string, r io.Reader) (*ast.File, error) {
	return parser.New(parser.Config{}).Parse(namespace, r)
}

// ParseString is a convenience wrapper over Parse for in-memory
// sources, used mostly by tests and examples.
func ParseString(namespace, source string) (*ast.File, error) {
	return Parse(namespace, strings.NewReader(source))
}

// Check validates a RAS source without building transforms, collecting
// every line error instead of stopping at the first one. It is meant
// for tooling that reports all problems in a file at once; loads stay
// fail-fast. A header error is returned alone: without a dialect no
// line can be validated.
func Check(namespace string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	loc := func() ast.Location { return ast.Location{Namespace: namespace, Line: lineNumber} }

	var headerLine string
	sawHeader := false
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(strings.TrimSuffix(scanner.Text(), "\r"), " \t")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		headerLine = line
		sawHeader = true
		break
	}
	if err := scanner.Err(); err != nil {
		return &raserrors.Error{Type: raserrors.TypeIO, Message: "failed to read source", Location: loc(), Cause: err}
	}
	if !sawHeader {
		return raserrors.New(raserrors.TypeHeader, loc(),
			"input exhausted before reaching RAS header for namespace %q", namespace)
	}

	header, herr := parser.ParseHeader(headerLine, loc())
	if herr != nil {
		return herr
	}

	list := &raserrors.List{}
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(strings.TrimSuffix(scanner.Text(), "\r"), " \t")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, lerr := parser.ScanLine(line, header.Dialect, loc()); lerr != nil {
			list.Add(lerr)
		}
	}
	if err := scanner.Err(); err != nil {
		return &raserrors.Error{Type: raserrors.TypeIO, Message: "failed to read source", Location: loc(), Cause: err}
	}

	return list.ToError()
}

// CheckString is a convenience wrapper over Check for in-memory
// sources.
func CheckString(namespace, source string) error {
	return Check(namespace, strings.NewReader(source))
}
