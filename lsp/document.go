// Copyright © 2026 The FXLINT authors

package lsp

import (
	"sync"

	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	lines   *lineMap
	scan    *parser.Scan
	result  *lint.AnalysisResult
}

// load replaces the document content and drops the cached analysis.
func (d *Document) load(version int32, content string) {
	d.Version = version
	d.Content = content
	d.lines = newLineMap(content)
	d.scan = parser.ScanText(content)
	d.result = nil
}

// snapshot is an immutable view of a document and its analysis.
type snapshot struct {
	uri     string
	content string
	lines   *lineMap
	scan    *parser.Scan
	result  *lint.AnalysisResult
}

// statementAt returns the statement containing offset, or nil.
func (sn *snapshot) statementAt(offset int) *lint.StatementResult {
	if sn.result == nil {
		return nil
	}
	var found *lint.StatementResult
	for i := range sn.result.Statements {
		st := &sn.result.Statements[i]
		if offset < st.Offset {
			break
		}
		found = st
	}
	if found != nil && offset > found.Offset+len(found.Source) {
		return nil
	}
	return found
}

// analyze returns a snapshot of doc, running the linter when the cached
// result is stale.
func (s *Server) analyze(doc *Document) snapshot {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.result == nil {
		doc.result = s.linter.AnalyzeFile([]byte(doc.Content), uriToPath(doc.URI))
	}
	return snapshot{
		uri:     doc.URI,
		content: doc.Content,
		lines:   doc.lines,
		scan:    doc.scan,
		result:  doc.result,
	}
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{URI: uri}
	doc.load(version, content)
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync).
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.load(version, content)
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
