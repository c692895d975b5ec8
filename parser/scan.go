// Copyright © 2026 The FXLINT authors

package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/fxlint/parser/lexer"
	"github.com/luthersystems/fxlint/parser/token"
)

// Syntax error messages.  Positional context is added by the caller, which
// knows where the scanned text sits within the whole input.
const (
	MsgTooDeep         = "formula nesting too deep"
	MsgUnclosedString  = lexer.ErrUnclosedString
	MsgStringLineBreak = "string literal contains line break"
)

// SyntaxError is a recoverable structural problem found while scanning or
// parsing.  Pos is a byte offset into the scanned text.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e SyntaxError) Error() string {
	return e.Msg
}

// Scan is the result of a single left-to-right pass over formula text.  All
// three bracket families share one stack so that a closing delimiter is
// always checked against the innermost open group.
type Scan struct {
	text  string
	toks  []*token.Token // significant tokens, EOF last
	depth []int          // nesting depth of each token
	match []int          // for open tokens, index of the closing token or -1
	errs  []SyntaxError
	notes []*token.Token // comments
}

type stackEntry struct {
	kind token.Type
	idx  int
}

// ScanText tokenizes text and tracks the bracket stack.
func ScanText(text string) *Scan {
	s := &Scan{text: text}
	var stack []stackEntry
	for _, tok := range lexer.Tokenize("", text) {
		if tok.Type == token.ERROR {
			s.errs = append(s.errs, SyntaxError{Pos: tok.Source.Pos, Msg: tok.Text})
			continue
		}
		if tok.Type == token.COMMENT {
			s.notes = append(s.notes, tok)
			continue
		}
		i := len(s.toks)
		s.toks = append(s.toks, tok)
		s.match = append(s.match, -1)
		switch {
		case tok.Type.IsOpen():
			s.depth = append(s.depth, len(stack))
			stack = append(stack, stackEntry{tok.Type, i})
		case tok.Type.IsClose():
			if len(stack) == 0 {
				s.depth = append(s.depth, 0)
				s.errorf(tok.Source.Pos, "unexpected closing %s", tok.Text)
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			s.depth = append(s.depth, len(stack))
			s.match[top.idx] = i
			if top.kind.Closer() != tok.Type {
				s.errorf(tok.Source.Pos, "mismatched brackets: expected %s but found %s", top.kind.Closer(), tok.Text)
			}
		case tok.Type == token.SEMICOLON && len(stack) > 0:
			s.depth = append(s.depth, len(stack))
			top := stack[len(stack)-1]
			s.errorf(tok.Source.Pos, "invalid semicolon inside %s block", top.kind)
		case tok.Type == token.STRING:
			s.depth = append(s.depth, len(stack))
			if strings.ContainsAny(tok.Text, "\r\n") {
				s.errs = append(s.errs, SyntaxError{Pos: tok.Source.Pos, Msg: MsgStringLineBreak})
			}
		default:
			s.depth = append(s.depth, len(stack))
		}
	}
	for _, e := range stack {
		s.errorf(s.toks[e.idx].Source.Pos, "unclosed %s", e.kind)
	}
	sort.SliceStable(s.errs, func(i, j int) bool { return s.errs[i].Pos < s.errs[j].Pos })
	return s
}

func (s *Scan) errorf(pos int, format string, v ...interface{}) {
	s.errs = append(s.errs, SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, v...)})
}

// Text returns the scanned text.
func (s *Scan) Text() string {
	return s.text
}

// Tokens returns the significant tokens of the text.  The final token is
// always EOF.
func (s *Scan) Tokens() []*token.Token {
	return s.toks
}

// Comments returns the comments found in the text.
func (s *Scan) Comments() []*token.Token {
	return s.notes
}

// Errors returns bracket and string literal errors in position order.
func (s *Scan) Errors() []SyntaxError {
	return s.errs
}

// TokenDepth returns the nesting depth of the i-th token.  Open and close
// delimiters have the depth of the group that contains them.
func (s *Scan) TokenDepth(i int) int {
	return s.depth[i]
}

// Match returns the index of the token that closes the open delimiter at
// index i, or -1 if the group is never closed.
func (s *Scan) Match(i int) int {
	return s.match[i]
}

// tokenAt returns the index of the token covering offset, or -1 when offset
// falls in whitespace before the first token.
func (s *Scan) tokenAt(offset int) int {
	i := sort.Search(len(s.toks), func(i int) bool { return s.toks[i].Source.Pos > offset })
	return i - 1
}

// InString reports whether offset lies within a string literal.
func (s *Scan) InString(offset int) bool {
	i := s.tokenAt(offset)
	if i < 0 {
		return false
	}
	tok := s.toks[i]
	return tok.Type == token.STRING && offset < tok.End()
}

// Depth returns the number of bracket groups enclosing offset.  A delimiter
// is considered outside the group it opens or closes.
func (s *Scan) Depth(offset int) int {
	i := s.tokenAt(offset)
	if i < 0 {
		return 0
	}
	tok := s.toks[i]
	if tok.Type.IsOpen() && offset >= tok.End() {
		return s.depth[i] + 1
	}
	return s.depth[i]
}

// IsTopLevel reports whether offset is outside every bracket group and
// outside string literals.
func (s *Scan) IsTopLevel(offset int) bool {
	return !s.InString(offset) && s.Depth(offset) == 0
}

// MatchingClose returns the closing delimiter for an opening delimiter, or 0
// if open is not one of ( { [.
func MatchingClose(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	}
	return 0
}
