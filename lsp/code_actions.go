// Copyright © 2026 The FXLINT authors

package lsp

import (
	"fmt"
	"slices"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction returns quick fixes for fxlint diagnostics: a
// nolint comment for any analyzer and the catalog spelling for misspelled
// function names.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}
	snap := s.analyze(doc)

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		analyzer := fmt.Sprintf("%v", diag.Code.Value)
		if analyzer == "" {
			continue
		}
		if fix, ok := s.renameAction(snap, diag); ok {
			actions = append(actions, fix)
		}
		actions = append(actions, suppressLintAction(snap, diag, analyzer))
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// renameAction replaces the name covered by diag with the catalog name it
// most likely means.
func (s *Server) renameAction(snap snapshot, diag protocol.Diagnostic) (protocol.CodeAction, bool) {
	sug, ok := s.registry().(catalog.Suggester)
	if !ok {
		return protocol.CodeAction{}, false
	}
	start := snap.lines.offset(diag.Range.Start)
	end := snap.lines.offset(diag.Range.End)
	if end <= start || end > len(snap.content) {
		return protocol.CodeAction{}, false
	}
	name := snap.content[start:end]
	if _, known := s.registry().Function(name); known {
		return protocol.CodeAction{}, false
	}
	fixed, ok := sug.Suggest(name)
	if !ok {
		return protocol.CodeAction{}, false
	}
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Replace %s with %s", name, fixed),
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		IsPreferred: boolPtr(true),
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				snap.uri: {{Range: diag.Range, NewText: fixed}},
			},
		},
	}, true
}

// suppressLintAction creates a code action that adds a // nolint:analyzer
// comment to the end of the diagnostic line.
func suppressLintAction(snap snapshot, diag protocol.Diagnostic, analyzer string) protocol.CodeAction {
	line := int(diag.Range.Start.Line)
	if line >= snap.lines.lineCount() {
		line = snap.lines.lineCount() - 1
	}
	end := snap.lines.lineEnd(line)
	if end > 0 && snap.content[end-1] == '\r' {
		end--
	}
	insertPos := snap.lines.position(end)

	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Suppress with // nolint:%s", analyzer),
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				snap.uri: {
					{
						Range:   protocol.Range{Start: insertPos, End: insertPos},
						NewText: " // nolint:" + analyzer,
					},
				},
			},
		},
	}
}
