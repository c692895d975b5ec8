// Copyright © 2026 The FXLINT authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	tok := tokenAt(snap.scan, snap.lines.offset(params.Position))
	if tok == nil {
		return nil, nil
	}

	var content string
	switch tok.Type {
	case token.IDENT:
		if rule, ok := s.registry().Function(tok.Text); ok {
			content = ruleMarkdown(rule)
		} else if sug, ok := s.registry().(catalog.Suggester); ok {
			if name, ok := sug.Suggest(tok.Text); ok {
				content = fmt.Sprintf("Unknown function `%s`. Did you mean `%s`?", tok.Text, name)
			}
		}
	case token.OPERATOR:
		if rule, ok := s.registry().Operator(tok.Text); ok {
			content = ruleMarkdown(rule)
		}
	}
	if content == "" {
		return nil, nil
	}

	rng := snap.lines.rangeOf(tok.Source.Pos, tok.End())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &rng,
	}, nil
}

// tokenAt returns the name or operator token covering offset.  A cursor
// just past the end of a token also selects it.
func tokenAt(s *parser.Scan, offset int) *token.Token {
	var touching *token.Token
	for _, tok := range s.Tokens() {
		if tok.Type == token.EOF || tok.Source.Pos > offset {
			break
		}
		if tok.Type != token.IDENT && tok.Type != token.OPERATOR {
			continue
		}
		if offset < tok.End() {
			return tok
		}
		if offset == tok.End() {
			touching = tok
		}
	}
	return touching
}

// ruleMarkdown builds Markdown hover text for a rule.
func ruleMarkdown(r *catalog.Rule) string {
	var sb strings.Builder
	kind := "function"
	if r.IsOperator() {
		kind = "operator"
	}
	fmt.Fprintf(&sb, "**%s** `%s`", kind, r.Key())
	if r.Syntax != "" {
		fmt.Fprintf(&sb, "\n\n```powerfx\n%s\n```", r.Syntax)
	}
	if r.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", r.Description)
	}
	if len(r.Parameters) > 0 {
		sb.WriteString("\n\n**Parameters**\n")
		for _, p := range r.Parameters {
			opt := ""
			if !p.Required {
				opt = ", optional"
			}
			fmt.Fprintf(&sb, "\n- `%s` (%s%s)", p.Name, p.Type, opt)
		}
	}
	if r.Returns != "" {
		fmt.Fprintf(&sb, "\n\n**Returns** %s", r.Returns)
	}
	fmt.Fprintf(&sb, "\n\n*Arguments: %s*", r.ArityString())
	if r.Docs != "" {
		fmt.Fprintf(&sb, "\n\n[Documentation](%s)", r.Docs)
	}
	return sb.String()
}
