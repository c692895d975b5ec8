// Copyright © 2026 The FXLINT authors

package lsp

import (
	"strings"
	"time"

	"github.com/luthersystems/fxlint/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	debounceDelay = 300 * time.Millisecond

	diagnosticSource = "fxlint"
)

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.delay, func() {
		defer func() { _ = recover() }() // don't crash the server on analysis panic
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish lints a document and publishes the resulting
// diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	snap := s.analyze(doc)
	diags := []protocol.Diagnostic{}
	for _, d := range snap.result.Diagnostics() {
		diags = append(diags, convertLintDiagnostic(d, snap.lines))
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         snap.uri,
		Diagnostics: diags,
	})
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
// Diagnostics without an offset cover the line they were reported on.
func convertLintDiagnostic(d lint.Diagnostic, lines *lineMap) protocol.Diagnostic {
	var rng protocol.Range
	if d.Pos != nil {
		rng = lines.rangeOf(*d.Pos, *d.Pos+d.Len)
	} else {
		line := d.Position.Line - 1
		if line < 0 {
			line = 0
		}
		if line >= lines.lineCount() {
			line = lines.lineCount() - 1
		}
		rng = lines.rangeOf(lines.starts[line], lines.lineEnd(line))
	}
	msg := d.Message
	if len(d.Notes) > 0 {
		msg += "\n" + strings.Join(d.Notes, "\n")
	}
	if d.DocRef != "" {
		msg += "\nsee " + d.DocRef
	}
	sev := mapLintSeverity(d.Severity)
	diag := protocol.Diagnostic{
		Range:    rng,
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	}
	if d.Analyzer != "" {
		diag.Code = &protocol.IntegerOrString{Value: d.Analyzer}
	}
	return diag
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case lint.SeveritySuggestion:
		return protocol.DiagnosticSeverityInformation
	case lint.SeverityStyle:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
