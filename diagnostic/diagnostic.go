// Copyright © 2026 The FXLINT authors

// Package diagnostic provides Rust-style annotated rendering of formula
// diagnostics for CLI output.  It is independent of the lint package so
// that any command can render messages without creating import cycles.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeveritySuggestion
	SeverityStyle
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeveritySuggestion:
		return "suggestion"
	case SeverityStyle:
		return "style"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity name to a Severity.  Unknown names map to
// SeverityNote.
func ParseSeverity(name string) Severity {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeveritySuggestion, SeverityStyle} {
		if s.String() == name {
			return s
		}
	}
	return SeverityNote
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // display name
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column, 0 marks a single character
	Source string // text of the line; empty shows only the location
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // analyzer name, shown as "error[syntax]"
	Spans    []Span
	Notes    []string // "= note:" lines
	Link     string   // "= see:" documentation link
}
