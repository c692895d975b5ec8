// Copyright © 2026 The FXLINT authors

package parser

import (
	"strings"

	"github.com/luthersystems/fxlint/parser/token"
)

// DefaultMaxDepth is the deepest bracket nesting ParseCalls accepts.
const DefaultMaxDepth = 200

// Option configures ParseCalls.
type Option func(*config)

type config struct {
	maxDepth int
}

// WithMaxDepth sets the deepest bracket nesting accepted before parsing is
// abandoned with a single "formula nesting too deep" error.  Values less
// than one select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// ParseCalls builds the call tree of a single statement.  Bare expressions
// yield no calls.  Malformed input never causes a panic; structural
// problems with the calls themselves are returned as syntax errors.
func ParseCalls(text string, opts ...Option) ([]*CallNode, []SyntaxError) {
	return ParseScan(ScanText(text), opts...)
}

// ParseScan is like ParseCalls but reuses an existing scan of the statement.
// Bracket errors recorded in the scan are not repeated in the result.
func ParseScan(s *Scan, opts ...Option) ([]*CallNode, []SyntaxError) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxDepth < 1 {
		c.maxDepth = DefaultMaxDepth
	}
	p := &callParser{s: s}
	for i, tok := range s.toks {
		if tok.Type.IsOpen() && s.depth[i] >= c.maxDepth {
			return nil, []SyntaxError{{Pos: tok.Source.Pos, Msg: MsgTooDeep}}
		}
	}
	// The final token is EOF.
	calls := p.parseRange(0, len(s.toks)-1)
	return calls, p.errs
}

type callParser struct {
	s    *Scan
	errs []SyntaxError
}

// parseRange finds the calls within tokens [lo, hi).  Recursion follows
// bracket nesting, which ParseScan has already bounded.
func (p *callParser) parseRange(lo, hi int) []*CallNode {
	var calls []*CallNode
	toks := p.s.toks
	for i := lo; i < hi; i++ {
		if toks[i].Type != token.IDENT || i+1 >= hi || toks[i+1].Type != token.PAREN_L {
			continue
		}
		node, next := p.parseCall(i, hi)
		calls = append(calls, node)
		i = next
	}
	return calls
}

// parseCall parses the call whose name is the token at index name.  It
// returns the node and the index of the last token belonging to it.
func (p *callParser) parseCall(name int, hi int) (*CallNode, int) {
	toks := p.s.toks
	open := name + 1
	node := &CallNode{
		Name:  toks[name].Text,
		Start: toks[name].Source.Pos,
	}
	end := p.s.match[open]
	if end < 0 || end > hi {
		end = hi
		node.End = len(p.s.text)
		if hi < len(toks) && toks[hi].Type != token.EOF {
			node.End = toks[hi].Source.Pos
		}
		p.errs = append(p.errs, SyntaxError{Pos: toks[open].Source.Pos, Msg: "unclosed ("})
	} else {
		node.Closed = true
		node.End = toks[end].Source.Pos
	}
	if open+1 == end {
		return node, end
	}

	argDepth := p.s.depth[open] + 1
	argStart := open + 1
	textStart := toks[open].End()
	for j := open + 1; j <= end; j++ {
		if j < end && !(toks[j].Type == token.COMMA && p.s.depth[j] == argDepth) {
			continue
		}
		textEnd := node.End
		if j < end {
			textEnd = toks[j].Source.Pos
		}
		raw := p.s.text[textStart:textEnd]
		trimmed := strings.TrimSpace(raw)
		pos := textStart + strings.Index(raw, trimmed)
		if trimmed == "" {
			pos = textStart
		}
		node.Args = append(node.Args, trimmed)
		node.ArgPos = append(node.ArgPos, pos)
		node.Nested = append(node.Nested, p.parseRange(argStart, j)...)
		if j < end {
			argStart = j + 1
			textStart = toks[j].End()
		}
	}
	return node, end
}
