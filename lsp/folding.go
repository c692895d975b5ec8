// Copyright © 2026 The FXLINT authors

package lsp

import (
	"strings"

	"github.com/luthersystems/fxlint/parser"
	"github.com/luthersystems/fxlint/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange returns folding ranges for calls that span
// more than one line and for comment blocks.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := s.analyze(doc)

	ranges := []protocol.FoldingRange{}
	for i := range snap.result.Statements {
		st := &snap.result.Statements[i]
		parser.Walk(st.Calls, func(n *parser.CallNode, _ []*parser.CallNode) bool {
			first := snap.lines.line(st.Offset + n.Start)
			last := snap.lines.line(st.Offset + n.End)
			if last > first {
				ranges = append(ranges, foldingRange(first, last, protocol.FoldingRangeKindRegion))
			}
			return true
		})
	}
	ranges = append(ranges, commentFoldingRanges(snap.scan.Comments(), snap.lines)...)
	return ranges, nil
}

// commentFoldingRanges folds block comments spanning several lines and runs
// of two or more consecutive line comments.
func commentFoldingRanges(comments []*token.Token, lines *lineMap) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	blockStart, blockEnd := -1, -1
	flush := func() {
		if blockStart >= 0 && blockEnd > blockStart {
			ranges = append(ranges, foldingRange(blockStart, blockEnd, protocol.FoldingRangeKindComment))
		}
		blockStart, blockEnd = -1, -1
	}
	for _, c := range comments {
		first := lines.line(c.Source.Pos)
		if !strings.HasPrefix(c.Text, "//") {
			flush()
			if last := lines.line(c.End()); last > first {
				ranges = append(ranges, foldingRange(first, last, protocol.FoldingRangeKindComment))
			}
			continue
		}
		if blockStart >= 0 && first == blockEnd+1 && onlyCommentBefore(lines, c.Source.Pos) {
			blockEnd = first
			continue
		}
		flush()
		if onlyCommentBefore(lines, c.Source.Pos) {
			blockStart, blockEnd = first, first
		}
	}
	flush()
	return ranges
}

// onlyCommentBefore reports whether the comment at offset is the first
// thing on its line.
func onlyCommentBefore(lines *lineMap, offset int) bool {
	start := lines.starts[lines.line(offset)]
	return strings.TrimSpace(lines.text[start:offset]) == ""
}

func foldingRange(first, last int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: safeUint(first),
		EndLine:   safeUint(last),
		Kind:      &k,
	}
}
