// Copyright © 2026 The FXLINT authors

package lexer

import (
	"io"
	"unicode"

	"github.com/luthersystems/fxlint/parser/token"
)

type LexFn func(*Lexer) []*token.Token

// Messages for recoverable lexical errors.  The lexer reports these as ERROR
// tokens positioned at the offending text and keeps going.
const (
	ErrUnclosedString  = "unclosed string literal"
	ErrUnclosedName    = "unclosed quoted name"
	ErrUnclosedComment = "unclosed block comment"
)

// wordOperators are identifiers that the formula language treats as infix
// operators.  They are only recognized as whole words so that an identifier
// such as ColumnNames never yields an "in" operator.
var wordOperators = map[string]bool{
	"in":      true,
	"exactin": true,
	"As":      true,
}

// twoCharOperators are matched before single character operators.  The last
// two are not valid in the formula language; they are lexed whole so the
// validator can report them as unknown operators.
var twoCharOperators = []string{"<>", ">=", "<=", "&&", "||", "!=", "=="}

const opRunes = "+-*/^&=<>!@%.|"

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
	return lex
}

// Tokenize lexes all of text and returns its tokens, terminated by a single
// EOF token.  ERROR tokens are interleaved with the token stream.
func Tokenize(file string, text string) []*token.Token {
	lex := New(token.NewScanner(file, text))
	var toks []*token.Token
	for {
		batch := lex.ReadToken()
		toks = append(toks, batch...)
		if len(batch) > 0 && batch[len(batch)-1].Type == token.EOF {
			return toks
		}
	}
}

func (lex *Lexer) ReadToken() []*token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() []*token.Token {
	lex.skipWhitespace()
	if lex.scanner.EOF() {
		return lex.emit(token.EOF, "")
	}
	err := lex.scanner.ScanRune()
	if err != nil {
		if err == io.EOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emitText(token.INVALID)
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '{':
		return lex.emitText(token.BRACE_L)
	case '}':
		return lex.emitText(token.BRACE_R)
	case '[':
		return lex.emitText(token.BRACKET_L)
	case ']':
		return lex.emitText(token.BRACKET_R)
	case ',':
		return lex.emitText(token.COMMA)
	case ';':
		return lex.emitText(token.SEMICOLON)
	case ':':
		return lex.emitText(token.COLON)
	case '"':
		return lex.readString()
	case '\'':
		return lex.readQuotedName()
	case '/':
		switch lex.peekRune() {
		case '/':
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			return lex.emitText(token.COMMENT)
		case '*':
			return lex.readBlockComment()
		}
		return lex.emitText(token.OPERATOR)
	case '.':
		if isDigit(lex.peekRune()) {
			return lex.readFraction()
		}
		return lex.emitText(token.OPERATOR)
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readIdent()
		}
		if isOpRune(c) {
			return lex.readOperator()
		}
		return lex.emitText(token.INVALID)
	}
}

// readString scans a string literal.  A backslash escapes the following
// character and a doubled quote is an embedded quote.  An unterminated
// literal extends to the end of input and is preceded by an ERROR token at
// the opening quote.
func (lex *Lexer) readString() []*token.Token {
	open := lex.scanner.LocStart()
	for {
		if lex.scanner.EOF() {
			errTok := &token.Token{Type: token.ERROR, Text: ErrUnclosedString, Source: open}
			return append([]*token.Token{errTok}, lex.emitText(token.STRING)...)
		}
		_ = lex.scanner.ScanRune()
		switch lex.scanner.Rune() {
		case '\\':
			if !lex.scanner.EOF() {
				_ = lex.scanner.ScanRune()
			}
		case '"':
			if lex.scanner.AcceptRune('"') {
				continue
			}
			return lex.emitText(token.STRING)
		}
	}
}

// readQuotedName scans a single quoted identifier such as 'Order Details'.
func (lex *Lexer) readQuotedName() []*token.Token {
	open := lex.scanner.LocStart()
	for {
		if lex.scanner.EOF() {
			errTok := &token.Token{Type: token.ERROR, Text: ErrUnclosedName, Source: open}
			return append([]*token.Token{errTok}, lex.emitText(token.IDENT)...)
		}
		_ = lex.scanner.ScanRune()
		if lex.scanner.Rune() == '\'' {
			if lex.scanner.AcceptRune('\'') {
				continue
			}
			return lex.readIdentTail()
		}
	}
}

func (lex *Lexer) readBlockComment() []*token.Token {
	open := lex.scanner.LocStart()
	lex.scanner.AcceptRune('*')
	for !lex.scanner.AcceptString("*/") {
		if lex.scanner.EOF() {
			errTok := &token.Token{Type: token.ERROR, Text: ErrUnclosedComment, Source: open}
			return append([]*token.Token{errTok}, lex.emitText(token.COMMENT)...)
		}
		_ = lex.scanner.ScanRune()
	}
	return lex.emitText(token.COMMENT)
}

func (lex *Lexer) readIdent() []*token.Token {
	lex.scanner.AcceptSeq(isWord)
	if wordOperators[lex.scanner.Text()] {
		return lex.emitText(token.OPERATOR)
	}
	return lex.readIdentTail()
}

// readIdentTail continues an identifier through dotted member access so that
// Gallery1.Selected.Name is a single identifier.
func (lex *Lexer) readIdentTail() []*token.Token {
	for lex.peekRune() == '.' {
		next, ok := lex.scanner.PeekAt(1)
		if !ok || !(isWordStart(next) || next == '\'') {
			break
		}
		_ = lex.scanner.ScanRune()
		if next == '\'' {
			_ = lex.scanner.ScanRune()
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\'' })
			lex.scanner.AcceptRune('\'')
			continue
		}
		lex.scanner.AcceptSeq(isWord)
	}
	return lex.emitText(token.IDENT)
}

func (lex *Lexer) readOperator() []*token.Token {
	first := lex.scanner.Rune()
	for _, op := range twoCharOperators {
		if rune(op[0]) == first && lex.peekRune() == rune(op[1]) {
			_ = lex.scanner.ScanRune()
			break
		}
	}
	return lex.emitText(token.OPERATOR)
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit already scanned
	if lex.peekRune() == '.' {
		if next, ok := lex.scanner.PeekAt(1); ok && isDigit(next) {
			lex.scanner.AcceptRune('.')
			return lex.readFraction()
		}
	}
	return lex.readExponent()
}

func (lex *Lexer) readFraction() []*token.Token {
	lex.scanner.AcceptSeqDigit()
	return lex.readExponent()
}

func (lex *Lexer) readExponent() []*token.Token {
	c := lex.peekRune()
	if c != 'e' && c != 'E' {
		return lex.emitText(token.NUMBER)
	}
	next, _ := lex.scanner.PeekAt(1)
	if next == '+' || next == '-' {
		digit, _ := lex.scanner.PeekAt(2)
		if !isDigit(digit) {
			return lex.emitText(token.NUMBER)
		}
	} else if !isDigit(next) {
		return lex.emitText(token.NUMBER)
	}
	lex.scanner.AcceptAny("eE")
	lex.scanner.AcceptAny("+-")
	lex.scanner.AcceptSeqDigit()
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isOpRune(c rune) bool {
	for _, r := range opRunes {
		if r == c {
			return true
		}
	}
	return false
}

// IsWordStart reports whether c may begin an identifier.
func IsWordStart(c rune) bool { return isWordStart(c) }

// IsWord reports whether c may continue an identifier.
func IsWord(c rune) bool { return isWord(c) }
