// Copyright © 2026 The FXLINT authors

package lint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
)

// AnalyzerSyntax reports structural problems: unbalanced or mismatched
// brackets, unterminated strings, misplaced semicolons and nesting beyond
// the parser's depth limit.
var AnalyzerSyntax = &Analyzer{
	Name:     "syntax",
	Severity: SeverityError,
	Category: CategorySyntax,
	Doc: "Report structural syntax errors.\n\n" +
		"Brackets of all three kinds are matched on one stack, string literals must be closed on the line " +
		"they start, and semicolons may only separate top-level statements. Empty parentheses that do not " +
		"belong to a call are reported as a warning, as are empty arguments such as the last one in If(a, b,).",
	Run: func(pass *Pass) error {
		seen := make(map[parser.SyntaxError]bool)
		report := func(e parser.SyntaxError) {
			if seen[e] {
				return
			}
			seen[e] = true
			pass.Report(Diagnostic{
				Pos:     At(e.Pos),
				Len:     1,
				Message: fmt.Sprintf("%s at position %d", e.Msg, pass.Offset(e.Pos)),
			})
		}
		for _, e := range pass.Scan.Errors() {
			report(e)
		}
		for _, e := range pass.ParseErrors {
			report(e)
		}

		toks := pass.Scan.Tokens()
		for i, tok := range toks {
			switch tok.Type {
			case token.INVALID:
				pass.Report(Diagnostic{
					Pos:     At(tok.Source.Pos),
					Len:     len(tok.Text),
					Message: fmt.Sprintf("unexpected character %q at position %d", tok.Text, pass.Offset(tok.Source.Pos)),
				})
			case token.PAREN_L:
				if i+1 >= len(toks) || toks[i+1].Type != token.PAREN_R {
					continue
				}
				if i > 0 && toks[i-1].Type == token.IDENT {
					continue
				}
				pass.Report(Diagnostic{
					Severity: SeverityWarning,
					Pos:      At(tok.Source.Pos),
					Len:      2,
					Message:  fmt.Sprintf("Empty parentheses found at position %d", pass.Offset(tok.Source.Pos)),
				})
			}
		}

		// Unclosed calls already carry an error.
		WalkCalls(pass.Calls, func(n *parser.CallNode, _ []*parser.CallNode) {
			if !n.Closed {
				return
			}
			for i, arg := range n.Args {
				if arg != "" {
					continue
				}
				pass.Report(Diagnostic{
					Severity: SeverityWarning,
					Pos:      At(n.ArgPos[i]),
					Len:      1,
					Message:  fmt.Sprintf("empty argument at position %d", pass.Offset(n.ArgPos[i])),
				})
			}
		})
		return nil
	},
}

// AnalyzerFunctionArity checks every call against the rule registry.
var AnalyzerFunctionArity = &Analyzer{
	Name:     "function-arity",
	Severity: SeverityError,
	Category: CategoryArity,
	Doc: "Check that every function exists and receives the right arguments.\n\n" +
		"Argument counts, odd or even argument lists and rule specific checks come from the rule catalog. " +
		"Errors inside nested calls are prefixed with the enclosing calls. Dotted names such as " +
		"Office365Users.MyProfile are connector calls and are not looked up.",
	Run: func(pass *Pass) error {
		WalkCalls(pass.Calls, func(n *parser.CallNode, outer []*parser.CallNode) {
			rule, ok := pass.Registry.Function(n.Name)
			if !ok {
				if strings.Contains(n.Name, ".") {
					return
				}
				d := Diagnostic{
					Pos:     At(n.Start),
					Len:     len(n.Name),
					Message: outerPrefix(outer) + "unknown function: " + n.Name,
				}
				var notes []string
				if sug, ok := pass.Registry.(catalog.Suggester); ok {
					if name, ok := sug.Suggest(n.Name); ok {
						notes = append(notes, fmt.Sprintf("did you mean %s?", name))
					}
				}
				pass.ReportWithNotes(d, notes...)
				return
			}
			// The syntax analyzer reports unclosed calls; their argument
			// lists are incomplete.
			if !n.Closed {
				return
			}
			out := rule.Validate(n.Args)
			if out.Valid {
				return
			}
			pass.Report(Diagnostic{
				Pos:     At(n.Start),
				Len:     len(n.Name),
				Message: outerPrefix(outer) + out.Message,
				DocRef:  rule.Docs,
			})
		})
		return nil
	},
}

// AnalyzerDataType suggests checking implicit type conversions.
var AnalyzerDataType = &Analyzer{
	Name:     "data-type",
	Severity: SeveritySuggestion,
	Category: CategoryType,
	Doc: "Suggest checking implicit type conversions.\n\n" +
		"Text applied to a number literal, number literals combined with names by arithmetic or &, and " +
		"Date calls are worth a second look.",
	Run: func(pass *Pass) error {
		for _, n := range CallsNamed(pass.Calls, "Text") {
			if len(n.Args) == 0 {
				continue
			}
			if _, err := strconv.ParseFloat(n.Args[0], 64); err != nil {
				continue
			}
			pass.Report(Diagnostic{
				Pos:     At(n.ArgPos[0]),
				Len:     len(n.Args[0]),
				Message: fmt.Sprintf("Consider verifying if explicit type conversion is necessary for the argument %q in the Text function", n.Args[0]),
			})
		}

		toks := pass.Scan.Tokens()
		var arith, mixing bool
		for i := 0; i+2 < len(toks); i++ {
			if toks[i].Type != token.NUMBER || toks[i+1].Type != token.OPERATOR || toks[i+2].Type != token.IDENT {
				continue
			}
			switch op := toks[i+1].Text; {
			case !arith && strings.Contains("+-*/", op):
				arith = true
				pass.Report(Diagnostic{
					Pos:     At(toks[i].Source.Pos),
					Len:     toks[i+2].End() - toks[i].Source.Pos,
					Message: "Verify that variables in numeric operations contain numeric values",
				})
			case !mixing && op == "&":
				mixing = true
				pass.Report(Diagnostic{
					Pos:     At(toks[i].Source.Pos),
					Len:     toks[i+2].End() - toks[i].Source.Pos,
					Message: "Potential type mixing detected. Consider using Text() for explicit conversion",
				})
			}
		}

		var date *parser.CallNode
		WalkCalls(pass.Calls, func(n *parser.CallNode, _ []*parser.CallNode) {
			if date == nil && strings.EqualFold(n.Name, "Date") {
				date = n
			}
		})
		if date != nil {
			pass.Report(Diagnostic{
				Pos:     At(date.Start),
				Len:     len(date.Name),
				Message: "Verify date format matches expected pattern",
			})
		}
		return nil
	},
}

// AnalyzerStyle reports calls whose names differ from a catalog function
// only in case.
var AnalyzerStyle = &Analyzer{
	Name:     "style",
	Severity: SeverityStyle,
	Category: CategoryStyle,
	Doc: "Report function names written in the wrong case.\n\n" +
		"Function names are case sensitive. A call to sum is reported with the catalog spelling Sum.",
	Run: func(pass *Pass) error {
		sug, ok := pass.Registry.(catalog.Suggester)
		if !ok {
			return nil
		}
		WalkCalls(pass.Calls, func(n *parser.CallNode, _ []*parser.CallNode) {
			if name, ok := sug.Suggest(n.Name); ok {
				pass.Reportf(n.Start, len(n.Name), "function %s should be written %s", n.Name, name)
			}
		})
		return nil
	},
}
