// Copyright © 2026 The FXLINT authors

// Package lsp implements a Language Server Protocol server for Power Fx
// formula files.  It publishes lint diagnostics and provides hover,
// completion, signature help, document symbols, folding ranges, semantic
// tokens and quick fixes.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/lint"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "fxlint-lsp"

// Version is reported to clients in the initialize response.
var Version = "0.1.0"

// Server is the formula language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore

	// Linter instance shared across diagnostics runs.
	linter *lint.Linter

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer
	delay      time.Duration

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithLinter sets the linter used for diagnostics.  Its registry also
// drives hover, completion and signature help.
func WithLinter(l *lint.Linter) Option {
	return func(s *Server) { s.linter = l }
}

// WithDebounce sets the delay between a didChange notification and the
// analysis it triggers.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// New creates a new formula language server.  Without WithLinter the
// server uses the embedded rule catalog and delegation table.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		debounce: make(map[string]*time.Timer),
		delay:    debounceDelay,
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.linter == nil {
		s.linter = lint.New(catalog.MustDefault(), lint.WithDelegation(catalog.MustDefaultDelegation()))
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:              s.textDocumentHover,
		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentDocumentSymbol:     s.textDocumentDocumentSymbol,
		TextDocumentSignatureHelp:      s.textDocumentSignatureHelp,
		TextDocumentCodeAction:         s.textDocumentCodeAction,
		TextDocumentFoldingRange:       s.textDocumentFoldingRange,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// registry returns the rule registry of the server's linter.
func (s *Server) registry() catalog.Registry {
	return s.linter.Registry
}

func (s *Server) initialize(ctx *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	capabilities := s.handler.CreateServerCapabilities()

	// Formulas are small; full sync keeps the document model simple.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters:   []string{"(", ","},
		RetriggerCharacters: []string{")"},
	}

	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: semanticTokenLegend(),
		Full:   true,
	}

	version := Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
