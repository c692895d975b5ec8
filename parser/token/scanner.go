// Copyright © 2026 The FXLINT authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from formula text.  Formulas are
// small so the whole input is held in memory; offsets reported by the
// scanner are byte offsets into that input.
type Scanner struct {
	file      string
	src       string
	line      int // line number at next
	lineStart int // offset of the first byte of line
	curLine   int // line number at pos
	curCol    int
	startLine int // line number at start
	startCol  int

	start int // start of the current token
	pos   int // index of c, a utf-8 rune in input
	next  int // index of the rune following pos
	c     Rune
}

// NewScanner initializes and returns a new Scanner over text.
func NewScanner(file string, text string) *Scanner {
	return &Scanner{
		file:      file,
		src:       text,
		line:      1,
		startLine: 1,
		startCol:  1,
		curLine:   1,
	}
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.next - s.lineStart + 1
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.next]
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned, if there are any.  If an invalid
// utf-8 sequence or EOF prevents futher runes from being scanned Peek returns
// a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.src) {
		return 0, false
	}
	c, n := utf8.DecodeRuneInString(s.src[s.next:])
	if (Rune{c, n}).IsRuneError() {
		return utf8.RuneError, false
	}
	return c, true
}

// PeekAt returns the rune k runes beyond the next rune without scanning
// anything.  PeekAt(0) is equivalent to Peek.
func (s *Scanner) PeekAt(k int) (rune, bool) {
	off := s.next
	for ; k > 0; k-- {
		if off >= len(s.src) {
			return 0, false
		}
		_, n := utf8.DecodeRuneInString(s.src[off:])
		off += n
	}
	if off >= len(s.src) {
		return 0, false
	}
	c, n := utf8.DecodeRuneInString(s.src[off:])
	if (Rune{c, n}).IsRuneError() {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.  At the end of input ScanRune returns io.EOF.  An invalid
// utf-8 byte is consumed and reported as an error so that callers always make
// progress.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.src) {
		return io.EOF
	}
	c, n := utf8.DecodeRuneInString(s.src[s.next:])
	s.scan(Rune{c, n})
	return s.checkRuneError()
}

func (s *Scanner) scan(r Rune) {
	s.c = r
	s.pos = s.next
	s.next += r.N
	s.curLine = s.line
	s.curCol = s.pos - s.lineStart + 1
	if r.C == '\n' {
		s.line++
		s.lineStart = s.next
	}
}

// EOF reports whether all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.src)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(peek) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if peek == c {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(c rune) bool { return '0' <= c && c <= '9' })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	if len(charset) == 1 {
		return s.AcceptRune(rune(charset[0]))
	}
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if strings.ContainsRune(charset, peek) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

// AcceptString accepts literal only if the entire literal is next in the
// input.  Unlike a sequence of AcceptRune calls nothing is consumed on a
// partial match.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(s.src[s.next:], literal) {
		return false
	}
	for range literal {
		if s.ScanRune() != nil {
			return false
		}
	}
	return true
}

func (s *Scanner) checkRuneError() error {
	if s.c.IsRuneError() {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.pos])
	}
	return nil
}

// LocStart returns a Location referencing the beginning of the current token,
// just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position, the last
// position of the current token.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.curLine,
		Col:  s.curCol,
	}
}

// Rune contains a rune that read by Scanner during peeking operations.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if Rune represents an invalid utf-8 sequence read
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
