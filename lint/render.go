// Copyright © 2026 The FXLINT authors

package lint

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/fxlint/diagnostic"
)

// ToDiagnostic converts d for the annotated renderer.  src is the analyzed
// text and may be nil; it supplies the source line and the end column of
// the span.
func ToDiagnostic(d Diagnostic, src []byte) diagnostic.Diagnostic {
	out := diagnostic.Diagnostic{
		Severity: diagnostic.ParseSeverity(d.Severity.String()),
		Message:  d.Message,
		Code:     d.Analyzer,
		Link:     d.DocRef,
	}
	if d.Position.Line > 0 {
		span := diagnostic.Span{
			File: d.Position.File,
			Line: d.Position.Line,
			Col:  d.Position.Col,
		}
		if lines := strings.Split(string(src), "\n"); d.Position.Line <= len(lines) {
			span.Source = strings.TrimSuffix(lines[d.Position.Line-1], "\r")
		}
		if d.Pos != nil && d.Len > 0 && *d.Pos+d.Len <= len(src) {
			text := string(src[*d.Pos : *d.Pos+d.Len])
			if i := strings.IndexByte(text, '\n'); i >= 0 {
				text = text[:i]
			}
			if n := utf8.RuneCountInString(text); n > 0 {
				span.EndCol = span.Col + n - 1
			}
		}
		out.Spans = append(out.Spans, span)
	}
	out.Notes = append(out.Notes, d.Notes...)
	return out
}

// Render writes diags with r.  sources maps file names to the analyzed
// text.
func Render(w io.Writer, r *diagnostic.Renderer, diags []Diagnostic, sources map[string][]byte) error {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i, d := range diags {
		ds[i] = ToDiagnostic(d, sources[d.Position.File])
	}
	return r.RenderAll(w, ds)
}
