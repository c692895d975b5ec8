// Copyright © 2026 The FXLINT authors

package lsp

import (
	"strings"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// functionLister is implemented by registries that can enumerate their
// functions.
type functionLister interface {
	Functions() []*catalog.Rule
}

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	offset := snap.lines.offset(params.Position)
	if snap.scan.InString(offset) || inComment(snap.scan, offset) {
		return []protocol.CompletionItem{}, nil
	}
	prefix := wordBefore(snap.content, offset)
	return s.functionCompletions(prefix), nil
}

// functionCompletions returns the catalog functions whose names start
// with prefix, ignoring case.
func (s *Server) functionCompletions(prefix string) []protocol.CompletionItem {
	items := []protocol.CompletionItem{}
	lister, ok := s.registry().(functionLister)
	if !ok {
		return items
	}
	lower := strings.ToLower(prefix)
	for _, r := range lister.Functions() {
		if !strings.HasPrefix(strings.ToLower(r.Name), lower) {
			continue
		}
		kind := protocol.CompletionItemKindFunction
		item := protocol.CompletionItem{
			Label: r.Name,
			Kind:  &kind,
		}
		if r.Syntax != "" {
			detail := r.Syntax
			item.Detail = &detail
		}
		if r.Description != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: r.Description,
			}
		}
		items = append(items, item)
	}
	return items
}

// inComment reports whether a cursor at offset is inside a comment.  The
// end of a line comment still belongs to it.
func inComment(s *parser.Scan, offset int) bool {
	for _, c := range s.Comments() {
		if offset <= c.Source.Pos {
			continue
		}
		if offset < c.End() || offset == c.End() && strings.HasPrefix(c.Text, "//") {
			return true
		}
	}
	return false
}
