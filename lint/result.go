// Copyright © 2026 The FXLINT authors

package lint

import (
	"sort"
	"unicode/utf8"

	"github.com/luthersystems/fxlint/parser"
)

// StatementResult is the analysis of one statement.
type StatementResult struct {
	Source      string             `json:"source"`
	Offset      int                `json:"offset"`
	Calls       []*parser.CallNode `json:"calls,omitempty"`
	Diagnostics []Diagnostic       `json:"diagnostics"`
	Complexity  Complexity         `json:"complexity"`
	Score       int                `json:"score"`
}

// Valid reports whether the statement has no error diagnostics.
func (r *StatementResult) Valid() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

// AnalysisResult is the analysis of a complete formula.
type AnalysisResult struct {
	File       string            `json:"file,omitempty"`
	Statements []StatementResult `json:"statements"`
	// Complexity is the highest complexity of any statement.
	Complexity Complexity `json:"complexity"`
}

// Diagnostics returns the diagnostics of every statement in statement order.
func (r *AnalysisResult) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, sr := range r.Statements {
		diags = append(diags, sr.Diagnostics...)
	}
	return diags
}

// Valid reports whether no statement has an error diagnostic.
func (r *AnalysisResult) Valid() bool {
	for i := range r.Statements {
		if !r.Statements[i].Valid() {
			return false
		}
	}
	return true
}

// Calls returns the top-level calls of every statement.
func (r *AnalysisResult) Calls() []*parser.CallNode {
	var calls []*parser.CallNode
	for _, sr := range r.Statements {
		calls = append(calls, sr.Calls...)
	}
	return calls
}

// lineIndex converts byte offsets into 1-based line and column numbers.
// Columns count runes.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (x *lineIndex) position(offset int) Position {
	if offset > len(x.text) {
		offset = len(x.text)
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := utf8.RuneCountInString(x.text[x.starts[line]:offset]) + 1
	return Position{Line: line + 1, Col: col}
}
