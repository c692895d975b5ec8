// Copyright © 2026 The FXLINT authors

package lsp

import (
	"strings"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSignatureHelp finds the call enclosing the cursor, looks up
// its rule and returns parameter hints.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	offset := snap.lines.offset(params.Position)
	if snap.scan.InString(offset) {
		return nil, nil
	}
	name, argIdx := enclosingCall(snap.scan, offset)
	if name == "" {
		return nil, nil
	}
	rule, ok := s.registry().Function(name)
	if !ok {
		return nil, nil
	}
	return buildSignatureHelp(rule, argIdx), nil
}

type callFrame struct {
	name string // empty for groups that are not calls
	arg  int
}

// enclosingCall returns the name of the innermost call whose argument
// list contains offset and the 0-based index of the argument under the
// cursor.  It returns "" when the cursor is not inside a call.
func enclosingCall(s *parser.Scan, offset int) (string, int) {
	toks := s.Tokens()
	var stack []callFrame
	for i, tok := range toks {
		if tok.Type == token.EOF || tok.Source.Pos >= offset {
			break
		}
		switch {
		case tok.Type.IsOpen():
			var name string
			if tok.Type == token.PAREN_L && i > 0 && toks[i-1].Type == token.IDENT {
				name = toks[i-1].Text
			}
			stack = append(stack, callFrame{name: name})
		case tok.Type.IsClose():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case tok.Type == token.COMMA:
			if len(stack) > 0 {
				stack[len(stack)-1].arg++
			}
		case tok.Type == token.SEMICOLON && len(stack) == 0:
			stack = nil
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name != "" {
			return stack[i].name, stack[i].arg
		}
	}
	return "", 0
}

// buildSignatureHelp renders the rule's parameters as "Name(a, [b], ...)".
// The active parameter of a variadic rule stays on its last parameter.
func buildSignatureHelp(rule *catalog.Rule, activeParam int) *protocol.SignatureHelp {
	var label strings.Builder
	label.WriteString(rule.Name)
	label.WriteString("(")

	var params []protocol.ParameterInformation
	for i, p := range rule.Parameters {
		if i > 0 {
			label.WriteString(", ")
		}
		text := p.Name
		if !p.Required {
			text = "[" + text + "]"
		}
		start := utf16Len(label.String())
		label.WriteString(text)
		pi := protocol.ParameterInformation{
			Label: []protocol.UInteger{safeUint(start), safeUint(start + utf16Len(text))},
		}
		if p.Type != "" {
			pi.Documentation = p.Type
		}
		params = append(params, pi)
	}
	if n := len(rule.Parameters); rule.Variadic() && n > 0 && !strings.Contains(rule.Parameters[n-1].Name, "...") {
		label.WriteString(", ...")
	}
	label.WriteString(")")

	ap := activeParam
	if ap >= len(params) {
		ap = len(params) - 1
	}
	if ap < 0 {
		ap = 0
	}
	active := safeUint(ap)

	sigInfo := protocol.SignatureInformation{
		Label:      label.String(),
		Parameters: params,
	}
	if rule.Description != "" {
		sigInfo.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: rule.Description,
		}
	}

	zero := protocol.UInteger(0)
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sigInfo},
		ActiveSignature: &zero,
		ActiveParameter: &active,
	}
}
