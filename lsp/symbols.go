// Copyright © 2026 The FXLINT authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const symbolNameWidth = 40

// textDocumentDocumentSymbol reports one symbol per statement with the
// statement's calls nested below it.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	symbols := []protocol.DocumentSymbol{}
	for i := range snap.result.Statements {
		st := &snap.result.Statements[i]
		if strings.TrimSpace(st.Source) == "" {
			continue
		}
		start, end := trimmedSpan(st.Source)
		rng := snap.lines.rangeOf(st.Offset+start, st.Offset+end)
		detail := fmt.Sprintf("%s (score %d)", st.Complexity, st.Score)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           statementName(st.Source),
			Detail:         &detail,
			Kind:           protocol.SymbolKindModule,
			Range:          rng,
			SelectionRange: rng,
			Children:       callSymbols(st, st.Calls, snap.lines),
		})
	}
	return symbols, nil
}

func callSymbols(st *lint.StatementResult, calls []*parser.CallNode, lines *lineMap) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, n := range calls {
		start := st.Offset + n.Start
		end := st.Offset + n.End
		if n.Closed {
			end++
		}
		detail := plural(len(n.Args), "arg")
		if !n.Closed {
			detail += ", unclosed"
		}
		out = append(out, protocol.DocumentSymbol{
			Name:           n.Name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindFunction,
			Range:          lines.rangeOf(start, end),
			SelectionRange: lines.rangeOf(start, start+len(n.Name)),
			Children:       callSymbols(st, n.Nested, lines),
		})
	}
	return out
}

// trimmedSpan returns the bounds of src without surrounding whitespace.
func trimmedSpan(src string) (int, int) {
	start := len(src) - len(strings.TrimLeft(src, " \t\r\n"))
	end := len(strings.TrimRight(src, " \t\r\n"))
	return start, end
}

// statementName shortens the first line of a statement for display.
func statementName(src string) string {
	name := strings.TrimSpace(src)
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = strings.TrimSpace(name[:i]) + " ..."
	}
	if r := []rune(name); len(r) > symbolNameWidth {
		name = string(r[:symbolNameWidth-3]) + "..."
	}
	return name
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
