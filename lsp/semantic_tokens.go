// Copyright © 2026 The FXLINT authors

package lsp

import (
	"sort"

	"github.com/luthersystems/fxlint/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Semantic token type indices; must match the order in semanticTokenLegend().
const (
	semTokenVariable = iota
	semTokenFunction
	semTokenComment
	semTokenString
	semTokenNumber
	semTokenOperator
)

// Semantic token modifier bit flags; must match the order in semanticTokenLegend().
const (
	semModDefaultLibrary = 1 << iota
)

// semanticTokenLegend returns the legend that the client uses to decode tokens.
func semanticTokenLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes: []string{
			"variable", // 0
			"function", // 1
			"comment",  // 2
			"string",   // 3
			"number",   // 4
			"operator", // 5
		},
		TokenModifiers: []string{
			"defaultLibrary", // bit 0
		},
	}
}

// rawToken is an intermediate representation before delta encoding.
type rawToken struct {
	line      int // 0-based
	startChar int // 0-based, UTF-16 units
	length    int
	tokenType int
	modifiers int
}

func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	var raw []rawToken
	toks := snap.scan.Tokens()
	for i, tok := range toks {
		typ, mods := -1, 0
		switch tok.Type {
		case token.IDENT:
			typ = semTokenVariable
			if i+1 < len(toks) && toks[i+1].Type == token.PAREN_L {
				typ = semTokenFunction
				if _, ok := s.registry().Function(tok.Text); ok {
					mods = semModDefaultLibrary
				}
			}
		case token.NUMBER:
			typ = semTokenNumber
		case token.STRING:
			typ = semTokenString
		case token.OPERATOR:
			typ = semTokenOperator
		}
		if typ >= 0 {
			raw = appendToken(raw, snap.lines, tok.Source.Pos, tok.End(), typ, mods)
		}
	}
	for _, c := range snap.scan.Comments() {
		raw = appendToken(raw, snap.lines, c.Source.Pos, c.End(), semTokenComment, 0)
	}
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].line != raw[j].line {
			return raw[i].line < raw[j].line
		}
		return raw[i].startChar < raw[j].startChar
	})
	return &protocol.SemanticTokens{Data: deltaEncode(raw)}, nil
}

// appendToken adds the bytes [start, end) as tokens, one per line, since
// clients need not support tokens spanning lines.
func appendToken(raw []rawToken, lines *lineMap, start, end, typ, mods int) []rawToken {
	for start < end {
		line := lines.line(start)
		stop := lines.lineEnd(line)
		if stop > end {
			stop = end
		}
		if n := utf16Len(lines.text[start:stop]); n > 0 {
			raw = append(raw, rawToken{
				line:      line,
				startChar: int(lines.position(start).Character),
				length:    n,
				tokenType: typ,
				modifiers: mods,
			})
		}
		start = stop + 1
	}
	return raw
}

// deltaEncode converts absolute token positions to the relative encoding
// of the protocol.
func deltaEncode(tokens []rawToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine := 0
	prevChar := 0
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			safeUint(deltaLine),
			safeUint(deltaChar),
			safeUint(tok.length),
			safeUint(tok.tokenType),
			safeUint(tok.modifiers),
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}
