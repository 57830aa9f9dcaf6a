package parser

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
)

// Config contains configuration for the Parser.
type Config struct {
	// Reversed derives the inverse transform set: origin and target of
	// every line are swapped before validation. This is how the same
	// file regenerates the pre-transform state.
	Reversed bool

	// Logger receives non-fatal diagnostics (lenient-prefix warnings).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Parser reads a whole RAS source into an ast.File. The dialect is
// selected by the file's own header.
type Parser struct {
	reversed bool
	logger   *slog.Logger
}

// New creates a parser.
func New(cfg Config) *Parser {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		reversed: cfg.Reversed,
		logger:   logger.With("component", "rasfmt.parser"),
	}
}

// Parse reads a RAS source under the given namespace label. The first
// error aborts the parse; a non-nil *ast.File is returned only when the
// entire source validated.
func (p *Parser) Parse(namespace string, r io.Reader) (*ast.File, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	loc := func() ast.Location { return ast.Location{Namespace: namespace, Line: lineNumber} }

	// Skip blank and comment lines preceding the header.
	var headerLine string
	sawHeader := false
	for scanner.Scan() {
		lineNumber++
		line := trimEOL(scanner.Text())
		if isBlank(line) || strings.HasPrefix(line, "#") {
			continue
		}
		headerLine = line
		sawHeader = true
		break
	}
	if err := scanner.Err(); err != nil {
		return nil, &raserrors.Error{Type: raserrors.TypeIO, Message: "failed to read source", Location: loc(), Cause: err}
	}
	if !sawHeader {
		return nil, raserrors.New(raserrors.TypeHeader, loc(),
			"input exhausted before reaching RAS header for namespace %q", namespace)
	}

	header, herr := ParseHeader(headerLine, loc())
	if herr != nil {
		return nil, herr
	}

	file := &ast.File{
		Namespace: namespace,
		Version:   header.Version,
		Dialect:   header.Dialect.Name(),
	}

	for scanner.Scan() {
		lineNumber++
		line := trimEOL(scanner.Text())
		if isBlank(line) || strings.HasPrefix(line, "#") {
			continue
		}

		lt, lerr := ScanLine(line, header.Dialect, loc())
		if lerr != nil {
			return nil, lerr
		}
		if lt.Synthesized {
			p.logger.Warn("special prefixes are not optional according to the RAS spec; other implementations may reject this file",
				"namespace", namespace,
				"line", lineNumber,
			)
		}

		file.Transforms = append(file.Transforms, p.toTransform(lt, loc()))
	}
	if err := scanner.Err(); err != nil {
		return nil, &raserrors.Error{Type: raserrors.TypeIO, Message: "failed to read source", Location: loc(), Cause: err}
	}

	return file, nil
}

// toTransform converts validated line tokens into an ast.Transform,
// applying the reversed swap. The equality, module, and kind checks are
// symmetric in origin and target, so validation done by ScanLine holds
// for the swapped pair as well.
func (p *Parser) toTransform(lt *LineTokens, loc ast.Location) *ast.Transform {
	origin, target := lt.Origin, lt.Target
	if p.reversed {
		origin, target = target, origin
	}
	return &ast.Transform{
		Origin:     origin,
		Target:     target,
		Kind:       lt.Kind,
		Policy:     lt.Policy,
		Scope:      lt.Scope,
		Class:      lt.Class,
		Member:     lt.Member,
		Descriptor: lt.Descriptor,
		Location:   loc,
	}
}

// trimEOL removes a trailing carriage return and trailing whitespace.
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\r")
	return strings.TrimRight(line, " \t")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
