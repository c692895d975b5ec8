// Copyright © 2026 The FXLINT authors

package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

// End returns the byte offset just beyond the token text.
func (tok *Token) End() int {
	return tok.Source.Pos + len(tok.Text)
}

type Type uint

// Type constants used by the formula lexer.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atomic expressions & literals
	IDENT
	NUMBER
	STRING

	// Operators, including the word operators in, exactin and As.
	OPERATOR

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R
	BRACKET_L
	BRACKET_R
	COMMA
	SEMICOLON
	COLON

	// Line and block comments
	COMMENT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		ERROR:     "error",
		EOF:       "EOF",
		IDENT:     "identifier",
		NUMBER:    "number",
		STRING:    "string",
		OPERATOR:  "operator",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACE_L:   "{",
		BRACE_R:   "}",
		BRACKET_L: "[",
		BRACKET_R: "]",
		COMMA:     ",",
		SEMICOLON: ";",
		COLON:     ":",
		COMMENT:   "comment",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsOpen reports whether typ opens a bracket group.
func (typ Type) IsOpen() bool {
	return typ == PAREN_L || typ == BRACE_L || typ == BRACKET_L
}

// IsClose reports whether typ closes a bracket group.
func (typ Type) IsClose() bool {
	return typ == PAREN_R || typ == BRACE_R || typ == BRACKET_R
}

// Closer returns the closing delimiter type that matches an opening
// delimiter, or INVALID.
func (typ Type) Closer() Type {
	switch typ {
	case PAREN_L:
		return PAREN_R
	case BRACE_L:
		return BRACE_R
	case BRACKET_L:
		return BRACKET_R
	}
	return INVALID
}

// Location identifies a byte offset within formula text.  Line and Col are
// tracked for multi-line documents (the LSP and file inputs) and start at 1.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset from the start of the input
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
