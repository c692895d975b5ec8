// Copyright © 2026 The FXLINT authors

package lint

import (
	"fmt"
	"strings"

	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
)

// Documentation links for the fixed delegation and performance heuristics.
const (
	docDelegation   = "https://learn.microsoft.com/en-us/power-apps/maker/data-platform/delegation-overview"
	docVariables    = "https://learn.microsoft.com/en-us/power-platform/power-fx/working-with-variables"
	docClearCollect = "https://learn.microsoft.com/en-us/power-platform/power-fx/reference/function-clear-collect-clearcollect"
	docPerformance  = "https://learn.microsoft.com/en-us/power-platform/power-fx/performance-optimization"
)

// nestedDelegation are the calls that may break delegation when nested
// inside Filter.
var nestedDelegation = []string{"Search", "Sort", "LookUp"}

// AnalyzerDelegation reports formulas that may not be delegated to their
// data source.
var AnalyzerDelegation = &Analyzer{
	Name:     "delegation",
	Severity: SeverityWarning,
	Category: CategoryDelegation,
	Doc: "Warn about formulas that may not delegate to the data source.\n\n" +
		"Each pattern of the delegation table is matched against the statement, outside string literals " +
		"and comments. Accessing .Items of a control and nesting Search, Sort or LookUp inside Filter are " +
		"reported as well. These checks are heuristic.",
	Run: func(pass *Pass) error {
		text := pass.Text()
		if pass.Delegation != nil {
			for _, risk := range pass.Delegation.Risks {
				for _, loc := range risk.FindAllIndex(text) {
					if !inCode(pass.Scan, loc[0]) {
						continue
					}
					pass.Report(Diagnostic{
						Pos:     At(loc[0]),
						Len:     loc[1] - loc[0],
						Message: fmt.Sprintf("%s: %s", risk.Name, risk.Message),
						DocRef:  risk.Documentation,
					})
					if risk.Suggestion != "" {
						pass.Report(Diagnostic{
							Severity: SeveritySuggestion,
							Pos:      At(loc[0]),
							Len:      loc[1] - loc[0],
							Message:  risk.Suggestion,
							DocRef:   risk.Documentation,
						})
					}
					break
				}
			}
		}
		for _, tok := range pass.Scan.Tokens() {
			if tok.Type != token.IDENT {
				continue
			}
			if i := itemsAccess(tok.Text); i >= 0 {
				pass.Report(Diagnostic{
					Pos:     At(tok.Source.Pos + i),
					Len:     len(".Items"),
					Message: "Using .Items may lead to delegation warnings with large datasets",
					DocRef:  docDelegation,
				})
			}
		}
		for _, filter := range CallsNamed(pass.Calls, "Filter") {
			for _, inner := range CallsNamed(filter.Nested, nestedDelegation...) {
				pass.Report(Diagnostic{
					Pos:     At(inner.Start),
					Len:     len(inner.Name),
					Message: "Nested delegation-capable functions may not delegate properly",
					Notes:   []string{fmt.Sprintf("%s is nested inside Filter", inner.Name)},
					DocRef:  docDelegation,
				})
			}
		}
		return nil
	},
}

// itemsAccess returns the offset of an ".Items" path segment within a
// dotted name, or -1.
func itemsAccess(name string) int {
	for i := 0; ; {
		j := strings.Index(name[i:], ".Items")
		if j < 0 {
			return -1
		}
		end := i + j + len(".Items")
		if end == len(name) || name[end] == '.' {
			return i + j
		}
		i = end
	}
}

// AnalyzerCollectionPatterns reports inefficient use of collections.
var AnalyzerCollectionPatterns = &Analyzer{
	Name:     "collection-patterns",
	Severity: SeveritySuggestion,
	Category: CategoryPerformance,
	Doc: "Suggest better collection patterns.\n\n" +
		"Multiple collection operations in one statement, Clear followed by Collect on the same collection, " +
		"Collect without UpdateContext or Set, and Collect inside ForAll are reported.",
	Run: func(pass *Pass) error {
		ops := CallsNamed(pass.Calls, "Collect", "ClearCollect", "Clear")
		if len(ops) > 1 {
			pass.Report(Diagnostic{
				Severity: SeverityWarning,
				Pos:      At(ops[1].Start),
				Len:      len(ops[1].Name),
				Message:  "Multiple collection operations detected. Consider combining operations for better performance.",
			})
		}

		collects := CallsNamed(pass.Calls, "Collect")
		if len(collects) > 0 && !HasCall(pass.Calls, "UpdateContext", "Set") {
			pass.Report(Diagnostic{
				Pos:     At(collects[0].Start),
				Len:     len(collects[0].Name),
				Message: "Consider using UpdateContext or Set for single value updates instead of collections",
				DocRef:  docVariables,
			})
		}

		later, _ := parser.ParseCalls(pass.Rest())
		for _, clear := range CallsNamed(pass.Calls, "Clear") {
			if len(clear.Args) != 1 || clear.Args[0] == "" {
				continue
			}
			if collectsInto(collects, clear.Args[0], clear.End) || collectsInto(CallsNamed(later, "Collect"), clear.Args[0], -1) {
				pass.Report(Diagnostic{
					Pos:     At(clear.Start),
					Len:     len(clear.Name),
					Message: "Consider using ClearCollect instead of separate Clear and Collect",
					DocRef:  docClearCollect,
				})
			}
		}

		for _, loop := range CallsNamed(pass.Calls, "ForAll") {
			inner := CallsNamed(loop.Nested, "Collect", "ClearCollect")
			if len(inner) == 0 {
				continue
			}
			pass.Report(Diagnostic{
				Pos:     At(inner[0].Start),
				Len:     len(inner[0].Name),
				Message: "Collection operations inside ForAll may impact performance. Consider batch operations.",
				DocRef:  docPerformance,
			})
		}
		return nil
	},
}

// collectsInto reports whether any of collects starting after offset adds
// to the named collection.
func collectsInto(collects []*parser.CallNode, name string, after int) bool {
	for _, c := range collects {
		if c.Start > after && len(c.Args) > 0 && c.Args[0] == name {
			return true
		}
	}
	return false
}
