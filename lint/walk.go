// Copyright © 2026 The FXLINT authors

package lint

import (
	"strings"

	"github.com/luthersystems/fxlint/parser"
)

// WalkCalls calls fn for every call in the tree, depth-first.  outer holds
// the enclosing calls, outermost first, and is empty for top-level calls.
func WalkCalls(calls []*parser.CallNode, fn func(n *parser.CallNode, outer []*parser.CallNode)) {
	parser.Walk(calls, func(n *parser.CallNode, outer []*parser.CallNode) bool {
		fn(n, outer)
		return true
	})
}

// CallsNamed returns every call in the tree whose name is one of names, in
// source order.
func CallsNamed(calls []*parser.CallNode, names ...string) []*parser.CallNode {
	var found []*parser.CallNode
	WalkCalls(calls, func(n *parser.CallNode, _ []*parser.CallNode) {
		for _, name := range names {
			if n.Name == name {
				found = append(found, n)
				return
			}
		}
	})
	return found
}

// HasCall reports whether the tree contains a call to any of names.
func HasCall(calls []*parser.CallNode, names ...string) bool {
	return len(CallsNamed(calls, names...)) > 0
}

// outerPrefix returns the "In A: In B: " context for a call nested inside
// outer.
func outerPrefix(outer []*parser.CallNode) string {
	var b strings.Builder
	for _, o := range outer {
		b.WriteString("In ")
		b.WriteString(o.Name)
		b.WriteString(": ")
	}
	return b.String()
}

// inComment reports whether offset lies within a comment of s.
func inComment(s *parser.Scan, offset int) bool {
	for _, c := range s.Comments() {
		if offset >= c.Source.Pos && offset < c.End() {
			return true
		}
	}
	return false
}

// inCode reports whether offset lies outside string literals and comments.
func inCode(s *parser.Scan, offset int) bool {
	return !s.InString(offset) && !inComment(s, offset)
}
