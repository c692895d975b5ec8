// Copyright © 2026 The FXLINT authors

package lint

import (
	parsec "github.com/prataprc/goparsec"

	"github.com/luthersystems/fxlint/parser/token"
)

// operandParser recognizes operands that are numeric literals or names,
// optionally signed and followed by percent signs:
//
//	operand := prefix? (number | name) percent?
//	name    := part ('.' part)*
//	part    := word | 'quoted name'
var operandParser = newOperandParser()

func newOperandParser() parsec.Parser {
	prefix := parsec.Token(`(?:[-!@]\s*)+`, "PREFIX")
	number := parsec.Token(`(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`, "NUMBER")
	name := parsec.Token(`(?:[\pL_][\pL\pN_]*|'(?:[^']|'')+')(?:\.(?:[\pL_][\pL\pN_]*|'(?:[^']|'')+'))*`, "NAME")
	percent := parsec.Token(`%+`, "PERCENT")
	primary := parsec.OrdChoice(nil, number, name)
	return parsec.And(nil, parsec.Maybe(nil, prefix), primary, parsec.Maybe(nil, percent))
}

// isNumberOrName reports whether text is entirely a numeric literal or a
// (possibly dotted) name.
func isNumberOrName(text string) bool {
	s := parsec.NewScanner([]byte(text))
	root, s := operandParser(s)
	if root == nil {
		return false
	}
	_, s = s.SkipWS()
	return s.Endof()
}

// operand is a run of tokens [first, last] forming one operand of an
// operator.
type operand struct {
	first int
	last  int
	// group is true when the operand is a call expression or a
	// parenthesized group.
	group bool
}

// operandText returns the source text of o.
func operandText(text string, toks []*token.Token, o operand) string {
	return text[toks[o.first].Source.Pos:toks[o.last].End()]
}

// numericLike reports whether o could plausibly evaluate to a number.  Call
// expressions and parenthesized groups are given the benefit of the doubt.
func numericLike(text string, toks []*token.Token, o operand) bool {
	if o.group {
		return true
	}
	return isNumberOrName(operandText(text, toks, o))
}
