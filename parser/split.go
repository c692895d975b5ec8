// Copyright © 2026 The FXLINT authors

package parser

import (
	"strings"
	"unicode"

	"github.com/luthersystems/fxlint/parser/token"
)

// Statement is one ;-separated statement of a formula.  Offset is the byte
// offset of Text within the text it was split from.
type Statement struct {
	Text   string
	Offset int
}

// SplitStatements splits text into top-level statements.  A semicolon
// separates statements only when it is outside every bracket group and
// outside string literals.  Statements are trimmed and empty statements are
// dropped.
func SplitStatements(text string) []Statement {
	return ScanText(text).Statements()
}

// Statements splits the scanned text into top-level statements.
func (s *Scan) Statements() []Statement {
	var stmts []Statement
	start := 0
	for i, tok := range s.toks {
		if tok.Type == token.SEMICOLON && s.depth[i] == 0 {
			stmts = appendStatement(stmts, s.text, start, tok.Source.Pos)
			start = tok.End()
		}
	}
	return appendStatement(stmts, s.text, start, len(s.text))
}

func appendStatement(stmts []Statement, text string, lo, hi int) []Statement {
	raw := text[lo:hi]
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	offset := lo + len(raw) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return stmts
	}
	return append(stmts, Statement{Text: trimmed, Offset: offset})
}
