// Copyright © 2026 The FXLINT authors

package parser

import "strings"

// CallNode is a single Name(args...) invocation.  Offsets are byte offsets
// into the statement the node was parsed from.
type CallNode struct {
	Name string
	// Args holds the trimmed raw text of each top-level argument.  A call
	// with empty parentheses has no arguments.
	Args []string
	// ArgPos holds the offset of each argument's trimmed text.
	ArgPos []int
	// Nested holds the calls found inside the arguments, in source order.
	Nested []*CallNode
	// Start is the offset of the first character of Name.
	Start int
	// End is the offset of the closing parenthesis, or the length of the
	// statement when the call is never closed.
	End int
	// Closed is false when the opening parenthesis has no matching close.
	Closed bool
}

// Source reconstructs the call from its name and arguments.
func (n *CallNode) Source() string {
	return n.Name + "(" + strings.Join(n.Args, ", ") + ")"
}

// Walk calls fn for each node in calls, depth first, before visiting the
// node's nested calls.  The enclosing calls of each node are passed as
// outer, outermost first.  If fn returns false the nested calls of that node
// are skipped.
func Walk(calls []*CallNode, fn func(n *CallNode, outer []*CallNode) bool) {
	walk(calls, nil, fn)
}

func walk(calls []*CallNode, outer []*CallNode, fn func(*CallNode, []*CallNode) bool) {
	for _, n := range calls {
		if !fn(n, outer) {
			continue
		}
		if len(n.Nested) > 0 {
			walk(n.Nested, append(outer[:len(outer):len(outer)], n), fn)
		}
	}
}

// Count returns the total number of nodes in calls, including nested calls.
func Count(calls []*CallNode) int {
	var n int
	Walk(calls, func(*CallNode, []*CallNode) bool {
		n++
		return true
	})
	return n
}
