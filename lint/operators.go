// Copyright © 2026 The FXLINT authors

package lint

import (
	"fmt"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
)

// MsgInvalidOperatorSequence is reported for adjacent operators that do not
// form a known operator, such as "+*".
const MsgInvalidOperatorSequence = "invalid operator sequence"

// operatorHints are notes attached to common operators borrowed from other
// languages.
var operatorHints = map[string]string{
	"!=": "use <> to test inequality",
	"==": "use = to test equality",
	"|":  "use || or Or for logical or",
}

// AnalyzerOperatorArity checks operator operands on the token stream.
var AnalyzerOperatorArity = &Analyzer{
	Name:     "operator-arity",
	Severity: SeverityError,
	Category: CategoryArity,
	Doc: "Check that every operator has its operands.\n\n" +
		"Infix operators need an operand on both sides, prefix operators (! and @) an operand on the right " +
		"and the postfix % an operand on the left. A - with nothing on its left is unary minus. Operands of " +
		"arithmetic operators should be numbers, names, calls or parenthesized groups.",
	Run: func(pass *Pass) error {
		ops := newOperatorStream(pass.Text(), pass.Scan, pass.Registry)
		ops.check(pass)
		return nil
	},
}

// operatorStream walks the significant tokens of a statement.  Operand
// boundaries come from token kinds and the bracket matches of the scan so
// that no operator is ever validated twice.
type operatorStream struct {
	text   string
	scan   *parser.Scan
	toks   []*token.Token
	n      int // number of tokens excluding EOF
	opener map[int]int
	reg    catalog.Registry
}

func newOperatorStream(text string, s *parser.Scan, reg catalog.Registry) *operatorStream {
	toks := s.Tokens()
	o := &operatorStream{
		text:   text,
		scan:   s,
		toks:   toks,
		n:      len(toks) - 1,
		opener: make(map[int]int),
		reg:    reg,
	}
	for i := 0; i < o.n; i++ {
		if toks[i].Type.IsOpen() {
			if m := s.Match(i); m >= 0 {
				o.opener[m] = i
			}
		}
	}
	return o
}

func (o *operatorStream) rule(i int) (*catalog.Rule, bool) {
	if i < 0 || i >= o.n || o.toks[i].Type != token.OPERATOR {
		return nil, false
	}
	return o.reg.Operator(o.toks[i].Text)
}

// isPrefix reports whether token i can begin an operand as a prefix
// operator.  Minus doubles as unary minus.
func (o *operatorStream) isPrefix(i int) bool {
	if i < 0 || i >= o.n || o.toks[i].Type != token.OPERATOR {
		return false
	}
	if o.toks[i].Text == "-" {
		return true
	}
	r, ok := o.rule(i)
	return ok && r.Fixity == catalog.Prefix
}

func (o *operatorStream) isPostfix(i int) bool {
	r, ok := o.rule(i)
	return ok && r.Fixity == catalog.Postfix
}

// endsOperand reports whether token i is the last token of an operand.
func (o *operatorStream) endsOperand(i int) bool {
	for i >= 0 && o.isPostfix(i) {
		i--
	}
	if i < 0 || i >= o.n {
		return false
	}
	switch o.toks[i].Type {
	case token.IDENT, token.NUMBER, token.STRING, token.PAREN_R, token.BRACE_R, token.BRACKET_R:
		return true
	}
	return false
}

// startsOperand reports whether an operand begins at token i, possibly
// behind prefix operators.
func (o *operatorStream) startsOperand(i int) bool {
	for ; i < o.n; i++ {
		switch o.toks[i].Type {
		case token.IDENT, token.NUMBER, token.STRING, token.PAREN_L, token.BRACE_L, token.BRACKET_L:
			return true
		case token.OPERATOR:
			if !o.isPrefix(i) {
				return false
			}
		default:
			return false
		}
	}
	return false
}

// closeOf returns the index of the token closing the group opened at i, or
// the last token when the group is unclosed.
func (o *operatorStream) closeOf(i int) int {
	if m := o.scan.Match(i); m >= 0 {
		return m
	}
	return o.n - 1
}

// rightOperand returns the operand beginning at token i.
func (o *operatorStream) rightOperand(i int) operand {
	op := operand{first: i}
	for o.isPrefix(i) {
		i++
	}
	switch tok := o.toks[i]; {
	case tok.Type == token.IDENT && i+1 < o.n && o.toks[i+1].Type == token.PAREN_L:
		op.last = o.closeOf(i + 1)
		op.group = true
	case tok.Type.IsOpen():
		op.last = o.closeOf(i)
		op.group = tok.Type == token.PAREN_L
	default:
		op.last = i
	}
	for o.isPostfix(op.last + 1) {
		op.last++
	}
	return op
}

// leftOperand returns the operand ending at token i.
func (o *operatorStream) leftOperand(i int) operand {
	op := operand{last: i}
	for o.isPostfix(i) {
		i--
	}
	op.first = i
	if o.toks[i].Type.IsClose() {
		if open, ok := o.opener[i]; ok {
			op.first = open
			if o.toks[open].Type == token.PAREN_L {
				op.group = true
				if open > 0 && o.toks[open-1].Type == token.IDENT {
					op.first = open - 1
				}
			}
		}
	}
	for op.first > 0 && o.isPrefix(op.first-1) && !o.endsOperand(op.first-2) {
		op.first--
	}
	return op
}

func (o *operatorStream) check(pass *Pass) {
	for i := 0; i < o.n; i++ {
		tok := o.toks[i]
		if tok.Type != token.OPERATOR {
			continue
		}
		rule, ok := o.reg.Operator(tok.Text)
		if !ok {
			var hints []string
			if hint, ok := operatorHints[tok.Text]; ok {
				hints = append(hints, hint)
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     At(tok.Source.Pos),
				Len:     len(tok.Text),
				Message: "unknown operator: " + tok.Text,
			}, hints...)
			continue
		}
		hasLeft := o.endsOperand(i - 1)
		hasRight := o.startsOperand(i + 1)
		fixity := rule.Fixity
		unary := tok.Text == "-" && !hasLeft
		if unary {
			fixity = catalog.Prefix
		}
		if fixity != catalog.Postfix && i+1 < o.n && o.toks[i+1].Type == token.OPERATOR &&
			!o.isPrefix(i+1) && !o.isPostfix(i+1) {
			next := o.toks[i+1]
			pass.Report(Diagnostic{
				Category: CategorySyntax,
				Pos:      At(tok.Source.Pos),
				Len:      next.End() - tok.Source.Pos,
				Message:  MsgInvalidOperatorSequence,
				Notes:    []string{fmt.Sprintf("%s cannot follow %s", next.Text, tok.Text)},
			})
			i++
			continue
		}

		var operands []operand
		if (fixity == catalog.Infix || fixity == catalog.Postfix) && hasLeft {
			operands = append(operands, o.leftOperand(i-1))
		}
		if (fixity == catalog.Infix || fixity == catalog.Prefix) && hasRight {
			operands = append(operands, o.rightOperand(i+1))
		}
		args := make([]string, len(operands))
		for j, op := range operands {
			args[j] = operandText(o.text, o.toks, op)
		}
		out := rule.Validate(args)
		if unary {
			// Unary minus takes the single operand on its right.
			out = catalog.Outcome{Valid: hasRight, Message: rule.Validate(nil).Message}
		}
		if !out.Valid {
			pass.Report(Diagnostic{
				Pos:     At(tok.Source.Pos),
				Len:     len(tok.Text),
				Message: out.Message,
				DocRef:  rule.Docs,
			})
			continue
		}
		if !rule.Numeric {
			continue
		}
		for j, op := range operands {
			if numericLike(o.text, o.toks, op) {
				continue
			}
			start := o.toks[op.first].Source.Pos
			pass.Report(Diagnostic{
				Severity: SeverityWarning,
				Category: CategoryType,
				Pos:      At(start),
				Len:      o.toks[op.last].End() - start,
				Message:  fmt.Sprintf("%s operand %s may not be numeric", rule.Name, args[j]),
			})
		}
	}
}
