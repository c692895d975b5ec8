// Copyright © 2026 The FXLINT authors

package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	var b strings.Builder
	writeHeader(&b, d, p)
	for _, span := range d.Spans {
		writeSpan(&b, span, p)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if d.Link != "" {
		fmt.Fprintf(&b, "   %s=%s see: %s\n", p.boldCyan, p.reset, d.Link)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes "error[syntax]: message", or "warning: message" when
// the diagnostic has no code.
func writeHeader(b *strings.Builder, d Diagnostic, p palette) {
	color := p.boldCyan
	switch d.Severity {
	case SeverityError:
		color = p.boldRed
	case SeverityWarning:
		color = p.yellow
	case SeveritySuggestion:
		color = p.green
	case SeverityStyle:
		color = p.blue
	}
	sev := d.Severity.String()
	if d.Code != "" {
		sev += "[" + d.Code + "]"
	}
	fmt.Fprintf(b, "%s%s%s%s: %s%s%s\n", color, p.bold, sev, p.reset, p.bold, d.Message, p.reset)
}

// writeSpan writes the location of span and, when its source line is
// known, the line with the span underlined.
func writeSpan(b *strings.Builder, span Span, p palette) {
	fmt.Fprintf(b, "  %s-->%s %s:%d:%d\n", p.boldBlue, p.reset, span.File, span.Line, max(span.Col, 1))
	if span.Source == "" {
		return
	}

	// Columns count runes and are clamped to the line.
	runes := []rune(span.Source)
	col := min(max(span.Col, 1), len(runes)+1)
	end := min(max(span.EndCol, col), len(runes))
	marked := ""
	if col <= end {
		marked = string(runes[col-1 : end])
	}

	num := strconv.Itoa(span.Line)
	gutter := p.boldBlue + strings.Repeat(" ", len(num)) + " |" + p.reset
	fmt.Fprintf(b, " %s\n", gutter)
	fmt.Fprintf(b, " %s%s |%s  %s\n", p.boldBlue, num, p.reset, strings.ReplaceAll(span.Source, "\t", "    "))
	fmt.Fprintf(b, " %s  %s%s%s%s\n", gutter,
		strings.Repeat(" ", displayWidth(string(runes[:col-1]))),
		p.boldRed, strings.Repeat("^", max(displayWidth(marked), 1)), p.reset)
	fmt.Fprintf(b, " %s\n", gutter)
}

// displayWidth returns the display width of a string, expanding tabs to 4
// spaces and counting East Asian wide runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w += runewidth.RuneWidth(ch)
		}
	}
	return w
}

func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
