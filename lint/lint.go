// Copyright © 2026 The FXLINT authors

// Package lint provides static analysis for formula expressions.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives one parsed statement and reports diagnostics.  The framework
// handles statement splitting, parsing, running analyzers, scoring
// complexity and collecting results into an AnalysisResult.
//
// Analysis never fails on malformed formula text.  Every problem is reported
// as a Diagnostic and a statement without error diagnostics is valid.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeveritySuggestion
	SeverityStyle
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeveritySuggestion:
		return "suggestion"
	case SeverityStyle:
		return "style"
	default:
		return "unknown"
	}
}

// ParseSeverity returns the severity named by str.
func ParseSeverity(str string) (Severity, error) {
	switch str {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "suggestion":
		return SeveritySuggestion, nil
	case "style":
		return SeverityStyle, nil
	}
	return severityUnset, fmt.Errorf("unknown severity: %q", str)
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s Severity) EncodeMsgpack(enc *msgpack.Encoder) error {
	if s == severityUnset {
		return enc.EncodeString("warning")
	}
	return enc.EncodeString(s.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *Severity) DecodeMsgpack(dec *msgpack.Decoder) error {
	str, err := dec.DecodeString()
	if err != nil {
		return err
	}
	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Category separates hard structural findings from advisory heuristics.
type Category string

const (
	CategorySyntax      Category = "syntax"
	CategoryArity       Category = "arity"
	CategoryType        Category = "type"
	CategoryDelegation  Category = "delegation"
	CategoryPerformance Category = "performance"
	CategoryStyle       Category = "style"
)

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "function-arity").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Category is the default category for diagnostics from this analyzer.
	Category Category

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.  Positions reported through
// a Pass are byte offsets into the statement; the Linter converts them into
// offsets into the whole input.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Input is the complete text being analyzed.
	Input string

	// Statement is the statement being analyzed.
	Statement parser.Statement

	// Scan is the token and bracket scan of the statement.
	Scan *parser.Scan

	// Calls is the call tree of the statement.
	Calls []*parser.CallNode

	// ParseErrors are the structural errors found while building Calls.
	ParseErrors []parser.SyntaxError

	// Registry resolves function and operator rules.
	Registry catalog.Registry

	// Delegation holds the delegation risk patterns.  It may be nil.
	Delegation *catalog.DelegationTable

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Text returns the statement text.
func (p *Pass) Text() string {
	return p.Statement.Text
}

// Offset converts a statement offset into an offset into the whole input.
func (p *Pass) Offset(pos int) int {
	return p.Statement.Offset + pos
}

// Rest returns the input that follows the statement.
func (p *Pass) Rest() string {
	end := p.Statement.Offset + len(p.Statement.Text)
	if end >= len(p.Input) {
		return ""
	}
	return p.Input[end:]
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	if d.Category == "" {
		d.Category = p.Analyzer.Category
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a statement offset
// spanning n bytes.
func (p *Pass) Reportf(pos int, n int, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Pos:     At(pos),
		Len:     n,
		Message: fmt.Sprintf(format, args...),
	})
}

// At returns a pointer to pos, for use as Diagnostic.Pos.
func At(pos int) *int {
	return &pos
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity" msgpack:"severity"`

	// Category classifies the problem.
	Category Category `json:"category" msgpack:"category"`

	// Message is a human-readable description of the problem.
	Message string `json:"message" msgpack:"message"`

	// Pos is the byte offset of the problem within the analyzed input, or
	// nil when the problem concerns a whole statement.
	Pos *int `json:"offset" msgpack:"offset"`

	// Len is the length in bytes of the offending text.
	Len int `json:"length,omitempty" msgpack:"length,omitempty"`

	// Position is the line and column of Pos.  For diagnostics without a Pos
	// it identifies the start of the statement.
	Position Position `json:"pos" msgpack:"pos"`

	// DocRef links to documentation about the problem.
	DocRef string `json:"docRef,omitempty" msgpack:"docRef,omitempty"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer" msgpack:"analyzer"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// Position identifies a location in source text.
type Position struct {
	File string `json:"file,omitempty" msgpack:"file,omitempty"`
	Line int    `json:"line" msgpack:"line"`
	Col  int    `json:"col,omitempty" msgpack:"col,omitempty"`
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "<input>"
	}
	if p.Line == 0 {
		return file
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", file, p.Line)
}

// String returns the diagnostic in go vet style:
// file:line:col: severity: message (analyzer) with optional note lines.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s (%s)", d.Position, d.Severity, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	if d.DocRef != "" {
		s += "\n  = see: " + d.DocRef
	}
	return s
}

// Linter runs a set of analyzers over formula text.
type Linter struct {
	Analyzers  []*Analyzer
	Registry   catalog.Registry
	Delegation *catalog.DelegationTable
	MaxDepth   int
	Thresholds Thresholds
}

// Option configures a Linter.
type Option func(*Linter)

// WithAnalyzers replaces the default analyzer set.
func WithAnalyzers(analyzers ...*Analyzer) Option {
	return func(l *Linter) {
		l.Analyzers = analyzers
	}
}

// WithMaxDepth sets the deepest bracket nesting accepted by the parser.
func WithMaxDepth(n int) Option {
	return func(l *Linter) {
		l.MaxDepth = n
	}
}

// WithThresholds sets the complexity classification thresholds.
func WithThresholds(t Thresholds) Option {
	return func(l *Linter) {
		l.Thresholds = t
	}
}

// WithDelegation sets the delegation risk table.  A nil table disables
// table driven delegation checks.
func WithDelegation(t *catalog.DelegationTable) Option {
	return func(l *Linter) {
		l.Delegation = t
	}
}

// New returns a Linter that resolves rules through reg and runs the default
// analyzers.
func New(reg catalog.Registry, opts ...Option) *Linter {
	l := &Linter{
		Analyzers:  DefaultAnalyzers(),
		Registry:   reg,
		Delegation: catalog.MustDefaultDelegation(),
		MaxDepth:   parser.DefaultMaxDepth,
		Thresholds: DefaultThresholds,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Analyze splits text into statements and analyzes each one.  Analyze is
// deterministic and safe to call concurrently.
func (l *Linter) Analyze(text string) *AnalysisResult {
	res := &AnalysisResult{}
	lines := newLineIndex(text)
	whole := parser.ScanText(text)
	for _, stmt := range whole.Statements() {
		scan := parser.ScanText(stmt.Text)
		if len(scan.Tokens()) == 1 && len(scan.Errors()) == 0 {
			// comments only
			continue
		}
		sr := l.analyzeStatement(text, stmt, scan)
		for i := range sr.Diagnostics {
			d := &sr.Diagnostics[i]
			if d.Pos != nil {
				d.Position = lines.position(*d.Pos)
			} else {
				d.Position = Position{Line: lines.position(stmt.Offset).Line}
			}
		}
		if res.Complexity < sr.Complexity {
			res.Complexity = sr.Complexity
		}
		res.Statements = append(res.Statements, sr)
	}
	filterSuppressed(res, whole.Comments(), lines)
	return res
}

// AnalyzeFile analyzes the contents of a named file.  Diagnostic positions
// are attributed to filename.
func (l *Linter) AnalyzeFile(source []byte, filename string) *AnalysisResult {
	res := l.Analyze(string(source))
	res.File = filename
	for i := range res.Statements {
		for j := range res.Statements[i].Diagnostics {
			res.Statements[i].Diagnostics[j].Position.File = filename
		}
	}
	return res
}

func (l *Linter) analyzeStatement(input string, stmt parser.Statement, scan *parser.Scan) StatementResult {
	calls, perrs := parser.ParseScan(scan, parser.WithMaxDepth(l.MaxDepth))
	tooDeep := false
	for _, e := range perrs {
		if e.Msg == parser.MsgTooDeep {
			tooDeep = true
		}
	}
	score := ScoreComplexity(scan)
	sr := StatementResult{
		Source:     stmt.Text,
		Offset:     stmt.Offset,
		Calls:      calls,
		Score:      score,
		Complexity: l.Thresholds.Classify(score),
	}
	for _, analyzer := range l.Analyzers {
		// A statement nested too deeply yields only the nesting error.
		if tooDeep && analyzer.Name != AnalyzerSyntax.Name {
			continue
		}
		pass := &Pass{
			Analyzer:    analyzer,
			Input:       input,
			Statement:   stmt,
			Scan:        scan,
			Calls:       calls,
			ParseErrors: perrs,
			Registry:    l.Registry,
			Delegation:  l.Delegation,
		}
		if err := analyzer.Run(pass); err != nil {
			pass.Report(Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("analyzer %s failed: %v", analyzer.Name, err),
			})
		}
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos != nil {
				pass.diagnostics[i].Pos = At(stmt.Offset + *pass.diagnostics[i].Pos)
			}
		}
		sr.Diagnostics = append(sr.Diagnostics, pass.diagnostics...)
	}
	sortDiagnostics(sr.Diagnostics)
	return sr
}

// sortDiagnostics orders diagnostics by offset.  Diagnostics without an
// offset sort last and ties keep analyzer order.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		pi, pj := diags[i].Pos, diags[j].Pos
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
}

// filterSuppressed removes diagnostics on lines with nolint comments.  A
// comment "// nolint" suppresses every diagnostic on its line and
// "// nolint:delegation,style" suppresses only the named analyzers.
func filterSuppressed(res *AnalysisResult, comments []*token.Token, lines *lineIndex) {
	nolintLines := make(map[int]string) // line -> "" (all) or "analyzer1,analyzer2"
	for _, tok := range comments {
		checkNolintComment(tok.Text, lines.position(tok.Source.Pos).Line, nolintLines)
	}
	if len(nolintLines) == 0 {
		return
	}
	for i := range res.Statements {
		sr := &res.Statements[i]
		var filtered []Diagnostic
		for _, d := range sr.Diagnostics {
			if !suppressed(d, nolintLines) {
				filtered = append(filtered, d)
			}
		}
		sr.Diagnostics = filtered
	}
}

func suppressed(d Diagnostic, nolintLines map[int]string) bool {
	directive, ok := nolintLines[d.Position.Line]
	if !ok {
		return false
	}
	// Empty directive = suppress all
	if directive == "" {
		return true
	}
	for _, name := range strings.Split(directive, ",") {
		if strings.TrimSpace(name) == d.Analyzer {
			return true
		}
	}
	return false
}

func checkNolintComment(text string, line int, lines map[int]string) {
	text = strings.TrimSpace(text)
	// Strip comment delimiters
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "nolint") {
		return
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" {
		lines[line] = ""
		return
	}
	if strings.HasPrefix(rest, ":") {
		lines[line] = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	}
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// FormatMsgpack writes diagnostics in MessagePack encoding.
func FormatMsgpack(w io.Writer, diags []Diagnostic) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerSyntax,
		AnalyzerFunctionArity,
		AnalyzerOperatorArity,
		AnalyzerDataType,
		AnalyzerDelegation,
		AnalyzerCollectionPatterns,
		AnalyzerStyle,
	}
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}

// SelectAnalyzers returns the default analyzers named in names.  An unknown
// name is an error.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	byName := make(map[string]*Analyzer)
	for _, a := range DefaultAnalyzers() {
		byName[a.Name] = a
	}
	var selected []*Analyzer
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown analyzer: %s", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}
