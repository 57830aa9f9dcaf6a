package rewrite

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"starloader-hq/ras/pkg/rasfmt/ast"
	raserrors "starloader-hq/ras/pkg/rasfmt/errors"
	"starloader-hq/ras/pkg/rasfmt/parser"
)

// Rewriter re-serializes RAS sources through a Resolver.
type Rewriter struct {
	logger *slog.Logger
}

// New creates a rewriter. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{logger: logger.With("component", "rasfmt.rewrite")}
}

// Rewrite reads a RAS source and writes the remapped form. A malformed
// header is fatal; malformed transform lines are logged and dropped.
// Token spacing is canonicalized to single spaces, everything else is
// preserved.
func (rw *Rewriter) Rewrite(namespace string, r io.Reader, w io.Writer, resolver Resolver) error {
	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	loc := func() ast.Location { return ast.Location{Namespace: namespace, Line: lineNumber} }

	// Echo everything preceding the header verbatim, then the header
	// itself. The header is echoed before validation so a truncated
	// output still shows what was read.
	var headerLine string
	sawHeader := false
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			if err := writeLine(bw, line); err != nil {
				return err
			}
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
	if err := writeLine(bw, headerLine); err != nil {
		return err
	}

	header, herr := parser.ParseHeader(headerLine, loc())
	if herr != nil {
		return herr
	}

	for scanner.Scan() {
		lineNumber++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(raw, "#") {
			if err := writeLine(bw, raw); err != nil {
				return err
			}
			continue
		}

		lt, lerr := parser.ScanLine(strings.TrimRight(raw, " \t"), header.Dialect, loc())
		if lerr != nil {
			rw.logger.Error("dropping malformed transform line from rewritten output",
				"namespace", namespace,
				"line", lineNumber,
				"error", lerr,
			)
			continue
		}
		if lt.Synthesized {
			rw.logger.Warn("special prefixes are not optional according to the RAS spec; a space prefix was synthesized",
				"namespace", namespace,
				"line", lineNumber,
			)
		}

		if err := writeLine(bw, rw.emit(lt, resolver)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &raserrors.Error{Type: raserrors.TypeIO, Message: "failed to read source", Location: loc(), Cause: err}
	}

	return bw.Flush()
}

// RewriteString is a convenience wrapper over Rewrite for in-memory
// sources.
func (rw *Rewriter) RewriteString(namespace, source string, resolver Resolver) (string, error) {
	var sb strings.Builder
	if err := rw.Rewrite(namespace, strings.NewReader(source), &sb, resolver); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// emit re-serializes a validated line. Prefix, scope, origin, and
// target are taken from the tokens as written: dropping or
// re-canonicalizing the access tokens would discard the transform's
// payload and break the round-trip contract.
func (rw *Rewriter) emit(lt *parser.LineTokens, resolver Resolver) string {
	var sb strings.Builder
	sb.WriteString(lt.RawPrefix)
	sb.WriteString(lt.ScopeToken)
	sb.WriteByte(' ')
	sb.WriteString(lt.OriginToken)
	sb.WriteByte(' ')
	sb.WriteString(lt.TargetToken)
	sb.WriteByte(' ')
	sb.WriteString(resolver.MapClassName(lt.Class))

	if lt.IsMember() {
		var name, desc string
		if lt.Descriptor[0] == '(' {
			name = resolver.MapMethodName(lt.Class, lt.Member, lt.Descriptor)
			desc = resolver.MapMethodDescriptor(lt.Descriptor)
		} else {
			name = resolver.MapFieldName(lt.Class, lt.Member, lt.Descriptor)
			desc = resolver.MapFieldDescriptor(lt.Descriptor)
		}
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(desc)
	}

	return sb.String()
}

func writeLine(bw *bufio.Writer, line string) error {
	if _, err := bw.WriteString(line); err != nil {
		return err
	}
	return bw.WriteByte('\n')
}
